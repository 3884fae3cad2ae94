package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/inventory-api/internal/dto"
	"github.com/noah-isme/inventory-api/pkg/response"
)

type systemService interface {
	Health() dto.HealthResponse
	Readiness(ctx context.Context) dto.ReadinessResponse
	Version(ctx context.Context) dto.VersionResponse
	ConfigStatus(ctx context.Context) dto.ConfigStatusResponse
}

// SystemHandler serves probes and build information.
type SystemHandler struct {
	service systemService
}

// NewSystemHandler constructs a system handler.
func NewSystemHandler(service systemService) *SystemHandler {
	return &SystemHandler{service: service}
}

// Health godoc
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Health())
}

// Ready godoc
// @Summary Readiness probe
// @Tags System
// @Produce json
// @Success 200 {object} dto.ReadinessResponse
// @Router /health/ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Readiness(c.Request.Context()))
}

// Version godoc
// @Summary Build information
// @Tags System
// @Produce json
// @Success 200 {object} dto.VersionResponse
// @Router /api/version [get]
func (h *SystemHandler) Version(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Version(c.Request.Context()))
}

// ConfigStatus godoc
// @Summary Configuration source status
// @Tags System
// @Produce json
// @Success 200 {object} dto.ConfigStatusResponse
// @Router /api/config/status [get]
func (h *SystemHandler) ConfigStatus(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.ConfigStatus(c.Request.Context()))
}
