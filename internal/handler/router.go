package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/inventory-api/internal/middleware"
	"github.com/noah-isme/inventory-api/internal/service"
	"github.com/noah-isme/inventory-api/pkg/config"
	appErrors "github.com/noah-isme/inventory-api/pkg/errors"
	"github.com/noah-isme/inventory-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/inventory-api/pkg/middleware/cors"
	"github.com/noah-isme/inventory-api/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/noah-isme/inventory-api/pkg/middleware/requestid"
	"github.com/noah-isme/inventory-api/pkg/response"
)

// RouterConfig carries everything the HTTP surface is assembled from.
type RouterConfig struct {
	Env            string
	AllowedOrigins []string
	Limiter        ratelimit.Limiter
	Logger         *zap.Logger
	Metrics        *service.MetricsService

	Inventory *InventoryHandler
	System    *SystemHandler
	External  *ExternalHandler
}

// NewRouter builds the gin engine with middleware and routes attached.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		response.Error(c, appErrors.Internal(fmt.Errorf("panic: %v", recovered), ""))
	}))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	r.GET("/health", cfg.System.Health)
	r.GET("/health/ready", cfg.System.Ready)
	r.GET("/metrics", NewMetricsHandler(cfg.Metrics).Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")
	api.Use(ratelimit.Middleware(cfg.Limiter))
	{
		api.GET("/version", cfg.System.Version)
		api.GET("/config/status", cfg.System.ConfigStatus)
		api.GET("/external-data", cfg.External.Get)

		inventory := api.Group("/inventory")
		inventory.GET("", cfg.Inventory.List)
		inventory.GET("/:id", cfg.Inventory.Get)
		inventory.POST("", cfg.Inventory.Create)
	}

	return r
}
