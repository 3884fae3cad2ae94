package dto

import (
	"time"

	"github.com/noah-isme/inventory-api/internal/models"
)

// CreateInventoryItemRequest is the payload accepted by POST /api/inventory.
// An omitted or zero ID asks the service to assign the next free one.
type CreateInventoryItemRequest struct {
	ID       int          `json:"id" validate:"gte=0"`
	Name     string       `json:"name" validate:"notblank"`
	Quantity int          `json:"quantity" validate:"gte=0"`
	Price    models.Money `json:"price" validate:"gte=0"`
}

// ExternalDataResponse reports the outcome of the simulated upstream call.
type ExternalDataResponse struct {
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
	HasAPISecret bool      `json:"hasApiSecret"`
}
