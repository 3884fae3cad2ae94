package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Inventory API",
        "description": "Inventory catalogue with layered configuration and sanitised errors",
        "version": "2.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Inventory", "description": "Catalogue reads and creates"},
        {"name": "System", "description": "Probes, build and configuration status"},
        {"name": "External", "description": "Upstream partner call"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Liveness probe",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/HealthResponse"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "tags": ["System"],
                "summary": "Readiness probe",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Ready or degraded", "schema": {"$ref": "#/definitions/ReadinessResponse"}}
                }
            }
        },
        "/api/version": {
            "get": {
                "tags": ["System"],
                "summary": "Build information",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/VersionResponse"}}
                }
            }
        },
        "/api/config/status": {
            "get": {
                "tags": ["System"],
                "summary": "Configuration source status",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ConfigStatusResponse"}}
                }
            }
        },
        "/api/inventory": {
            "get": {
                "tags": ["Inventory"],
                "summary": "List inventory items",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/InventoryItem"}}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Internal failure", "schema": {"$ref": "#/definitions/Problem"}}
                }
            },
            "post": {
                "tags": ["Inventory"],
                "summary": "Create inventory item",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateInventoryItemRequest"}}
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "headers": {"Location": {"type": "string", "description": "Path of the created item"}},
                        "schema": {"$ref": "#/definitions/InventoryItem"}
                    },
                    "400": {"description": "Validation failure", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "Id already in use", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Internal failure", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/api/inventory/{id}": {
            "get": {
                "tags": ["Inventory"],
                "summary": "Get inventory item by id",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer", "minimum": 1}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/InventoryItem"}},
                    "400": {"description": "Invalid id", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Internal failure", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/api/external-data": {
            "get": {
                "tags": ["External"],
                "summary": "Call the external API",
                "description": "Reports whether an upstream secret is configured. The secret itself is never returned.",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ExternalDataResponse"}},
                    "500": {"description": "Upstream call failed or was cancelled", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["System"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "InventoryItem": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "quantity": {"type": "integer", "minimum": 0},
                "price": {"type": "number", "minimum": 0},
                "lastUpdated": {"type": "string", "format": "date-time"}
            }
        },
        "CreateInventoryItemRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "id": {"type": "integer", "description": "Omit or send 0 to have one assigned"},
                "name": {"type": "string"},
                "quantity": {"type": "integer", "minimum": 0},
                "price": {"type": "number", "minimum": 0}
            }
        },
        "FieldViolation": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/FieldViolation"}}
            }
        },
        "Problem": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "integer"},
                "code": {"type": "string"}
            }
        },
        "HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "ReadinessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["ready", "degraded"]},
                "timestamp": {"type": "string", "format": "date-time"},
                "environment": {"type": "string"},
                "version": {"type": "string"},
                "checks": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "VersionResponse": {
            "type": "object",
            "properties": {
                "version": {"type": "string"},
                "buildDate": {"type": "string"},
                "buildNumber": {"type": "string"},
                "environment": {"type": "string"}
            }
        },
        "ConfigStatusResponse": {
            "type": "object",
            "properties": {
                "keyVaultConfigured": {"type": "boolean"},
                "environment": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "ExternalDataResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"},
                "hasApiSecret": {"type": "boolean"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
