package response

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/inventory-api/pkg/errors"
	"github.com/noah-isme/inventory-api/pkg/logger"
)

const problemContentType = "application/problem+json"

// ErrorBody is returned for client-caused failures.
type ErrorBody struct {
	Error   string                     `json:"error"`
	Code    string                     `json:"code"`
	Details []appErrors.FieldViolation `json:"details,omitempty"`
}

// Problem is returned for server-caused failures. It never carries the cause.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Code   string `json:"code"`
}

// Map converts any failure into the status and body sent to the caller.
func Map(err error) (int, interface{}) {
	appErr := appErrors.FromError(err)
	if appErr == nil {
		appErr = appErrors.ErrInternal
	}
	if appErr.ServerSide() {
		return appErr.Status, Problem{
			Type:   "about:blank",
			Title:  appErr.Message,
			Status: appErr.Status,
			Code:   appErr.Code,
		}
	}
	return appErr.Status, ErrorBody{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Violations,
	}
}

// JSON sends a success payload as-is.
func JSON(c *gin.Context, status int, data interface{}) {
	noStore(c)
	c.JSON(status, data)
}

// Created responds with HTTP 201 and a Location header.
func Created(c *gin.Context, location string, data interface{}) {
	if location != "" {
		c.Header("Location", location)
	}
	JSON(c, http.StatusCreated, data)
}

// Error logs the failure and writes its mapped response. Server-side causes
// are logged in full and never reach the body.
func Error(c *gin.Context, err error) {
	status, body := Map(err)
	log := logger.FromContext(c)
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", append(fields, zap.Error(err))...)
	} else {
		log.Warn("request rejected", append(fields, zap.String("reason", appErrors.FromError(err).Message))...)
	}

	noStore(c)
	if problem, ok := body.(Problem); ok {
		payload, marshalErr := json.Marshal(problem)
		if marshalErr != nil {
			c.AbortWithStatus(status)
			return
		}
		c.Data(status, problemContentType, payload)
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(status, body)
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
