package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/inventory-api/api/swagger"
	"github.com/noah-isme/inventory-api/internal/handler"
	"github.com/noah-isme/inventory-api/internal/models"
	"github.com/noah-isme/inventory-api/internal/repository"
	"github.com/noah-isme/inventory-api/internal/service"
	"github.com/noah-isme/inventory-api/pkg/cache"
	"github.com/noah-isme/inventory-api/pkg/config"
	"github.com/noah-isme/inventory-api/pkg/events"
	"github.com/noah-isme/inventory-api/pkg/logger"
	"github.com/noah-isme/inventory-api/pkg/middleware/ratelimit"
)

// @title Inventory API
// @version 2.0.0
// @description Inventory catalogue with layered configuration and sanitised errors
// @BasePath /
// @schemes http

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("inventory-api", "Inventory catalogue HTTP API")
	configFile := kingpinApp.Flag("config", "Path to settings file (yaml, toml or json)").String()
	dotEnvFile := kingpinApp.Flag("dotenv", "Path to .env file").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	env := kingpinApp.Flag("env", "Environment name, e.g. development or production").String()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := map[string]string{}
	if *port != "" {
		overrides["port"] = *port
	}
	if *env != "" {
		overrides["env"] = *env
	}

	ctx := context.Background()
	res, err := config.NewLayeredResolver(ctx, config.Options{
		SettingsFile: *configFile,
		DotEnvFile:   *dotEnvFile,
		Overrides:    overrides,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to build configuration: %v", err))
	}
	cfg, err := config.Load(ctx, res)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logr, err := logger.New(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logr.Sync()
	}()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, cleanup, err := newServer(ctx, cfg, res, logr)
	if err != nil {
		logr.Fatal("failed to initialize application", zap.Error(err))
	}
	defer cleanup()

	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.Bool("vault", res.HasSource(config.SourceVault)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	shutdown(srv, cfg.Server.ShutdownGracePeriod, logr)
}

// newServer wires every dependency behind the HTTP server. The returned
// cleanup releases background workers and connections.
func newServer(ctx context.Context, cfg *config.Config, res *config.Resolver, logr *zap.Logger) (*http.Server, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	metrics := service.NewMetricsService()
	res.Observe(metrics.ObserveConfigLookup)

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, cleanup, err
	}
	if redisClient != nil {
		closers = append(closers, func() { _ = redisClient.Close() })
	}
	cacheRepo := repository.NewCacheRepository(redisClient, "inventory-api:")
	cacheSvc := service.NewCacheService(cacheRepo, service.CacheOptions{
		TTL:     cfg.ExternalAPI.CacheTTL,
		Metrics: metrics,
		Logger:  logr,
	})

	var itemEvents *service.ItemEventPublisher
	if cfg.Events.NATSURL != "" {
		publisher, err := events.NewNATSPublisher(cfg.Events.NATSURL)
		if err != nil {
			logr.Warn("item events disabled", zap.Error(err))
		} else {
			dispatcher := events.NewDispatcher(publisher, events.DispatcherConfig{
				Workers:    cfg.Events.Workers,
				MaxRetries: cfg.Events.MaxRetries,
				RetryDelay: cfg.Events.RetryDelay,
				Logger:     logr,
			})
			dispatcher.Start(ctx)
			closers = append(closers, func() { _ = publisher.Close() }, dispatcher.Stop)
			itemEvents = service.NewItemEventPublisher(dispatcher, cfg.Events.SubjectPrefix, metrics, logr)
		}
	}

	inventoryRepo := repository.NewInventoryRepository(models.SeedInventory(time.Now())...)
	validate := service.NewInventoryValidator(validator.New())
	inventorySvc := service.NewInventoryService(inventoryRepo, validate, itemEvents, metrics, logr)
	externalSvc := service.NewExternalDataService(res, cacheSvc, metrics, cfg.ExternalAPI, logr)
	systemSvc := service.NewSystemService(res, cacheRepo, cfg.Env, logr)

	router := handler.NewRouter(handler.RouterConfig{
		Env:            cfg.Env,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Limiter:        ratelimit.NewTokenBucket(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Logger:         logr,
		Metrics:        metrics,
		Inventory:      handler.NewInventoryHandler(inventorySvc, res),
		System:         handler.NewSystemHandler(systemSvc),
		External:       handler.NewExternalHandler(externalSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}
	return srv, cleanup, nil
}

func shutdown(server *http.Server, timeout time.Duration, logr *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logr.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logr.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
