package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/inventory-api/internal/dto"
	"github.com/noah-isme/inventory-api/pkg/response"
)

type externalDataService interface {
	Fetch(ctx context.Context) (*dto.ExternalDataResponse, error)
}

// ExternalHandler proxies the upstream data call.
type ExternalHandler struct {
	service externalDataService
}

// NewExternalHandler constructs an external data handler.
func NewExternalHandler(service externalDataService) *ExternalHandler {
	return &ExternalHandler{service: service}
}

// Get godoc
// @Summary Call the external API
// @Description Reports whether an upstream secret is configured. The secret itself is never returned.
// @Tags External
// @Produce json
// @Success 200 {object} dto.ExternalDataResponse
// @Failure 500 {object} response.Problem
// @Router /api/external-data [get]
func (h *ExternalHandler) Get(c *gin.Context) {
	resp, err := h.service.Fetch(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
