package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/inventory-api/internal/dto"
	"github.com/noah-isme/inventory-api/internal/models"
	"github.com/noah-isme/inventory-api/pkg/config"
	appErrors "github.com/noah-isme/inventory-api/pkg/errors"
	"github.com/noah-isme/inventory-api/pkg/logger"
	"github.com/noah-isme/inventory-api/pkg/response"
)

type inventoryService interface {
	ListAll(ctx context.Context) ([]models.InventoryItem, error)
	GetByID(ctx context.Context, id int) (*models.InventoryItem, error)
	Create(ctx context.Context, req dto.CreateInventoryItemRequest) (*models.InventoryItem, error)
}

type configChecker interface {
	IsConfigured(ctx context.Context, key string) (bool, error)
}

// InventoryHandler exposes the catalogue endpoints.
type InventoryHandler struct {
	service inventoryService
	config  configChecker
}

// NewInventoryHandler constructs an inventory handler.
func NewInventoryHandler(service inventoryService, cfg configChecker) *InventoryHandler {
	return &InventoryHandler{service: service, config: cfg}
}

// List godoc
// @Summary List inventory items
// @Tags Inventory
// @Produce json
// @Success 200 {array} models.InventoryItem
// @Failure 500 {object} response.Problem
// @Router /api/inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	log := logger.FromContext(c)
	log.Info("fetching all inventory items")

	items, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	log.Info("retrieved inventory items", zap.Int("count", len(items)))
	response.JSON(c, http.StatusOK, items)
}

// Get godoc
// @Summary Get inventory item by id
// @Tags Inventory
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} models.InventoryItem
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 500 {object} response.Problem
// @Router /api/inventory/{id} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Validation(appErrors.FieldViolation{Field: "id", Reason: "Invalid ID. Must be greater than 0."}))
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Create inventory item
// @Tags Inventory
// @Accept json
// @Produce json
// @Param payload body dto.CreateInventoryItemRequest true "Inventory item"
// @Success 201 {object} models.InventoryItem
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Failure 500 {object} response.Problem
// @Router /api/inventory [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	var req dto.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid request body."))
		return
	}

	log := logger.FromContext(c)
	h.checkAPIKey(c.Request.Context(), log)

	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	log.Info("created inventory item", zap.Int("id", item.ID))
	response.Created(c, fmt.Sprintf("/api/inventory/%d", item.ID), item)
}

// checkAPIKey only warns: a missing key does not block creates.
func (h *InventoryHandler) checkAPIKey(ctx context.Context, log *zap.Logger) {
	if h.config == nil {
		return
	}
	configured, err := h.config.IsConfigured(ctx, config.KeyAPIKey)
	switch {
	case err != nil:
		log.Warn("api key lookup failed", zap.Error(err))
	case !configured:
		log.Warn("api key not configured")
	}
}
