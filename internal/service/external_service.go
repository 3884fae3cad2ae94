package service

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/inventory-api/internal/dto"
	"github.com/noah-isme/inventory-api/pkg/config"
	appErrors "github.com/noah-isme/inventory-api/pkg/errors"
)

const (
	externalDataCacheKey = "external-data:v1"
	externalCallFailed   = "Error calling external API"
	externalCallDone     = "External API call completed successfully"
)

type configLookup interface {
	Lookup(ctx context.Context, key string) (string, error)
	IsConfigured(ctx context.Context, key string) (bool, error)
}

// externalDataCacheEntry is what reaches Redis. It never holds the secret.
type externalDataCacheEntry struct {
	HasAPISecret bool `json:"hasApiSecret"`
}

// ExternalDataService performs the simulated upstream call.
type ExternalDataService struct {
	config   configLookup
	cache    *CacheService
	metrics  *MetricsService
	settings config.ExternalAPIConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewExternalDataService constructs the service. cache may be nil.
func NewExternalDataService(cfg configLookup, cache *CacheService, metrics *MetricsService, settings config.ExternalAPIConfig, logger *zap.Logger) *ExternalDataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExternalDataService{
		config:   cfg,
		cache:    cache,
		metrics:  metrics,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

// Fetch resolves the upstream settings, waits out the call and reports only
// whether a secret was available. Cancellation of ctx or the configured
// timeout aborts the wait with an internal failure.
func (s *ExternalDataService) Fetch(ctx context.Context) (*dto.ExternalDataResponse, error) {
	var cached externalDataCacheEntry
	if s.cache.Load(ctx, externalDataCacheKey, &cached) {
		return s.response(cached.HasAPISecret), nil
	}

	start := time.Now()
	hasSecret, err := s.call(ctx)
	s.metrics.ObserveExternalCall(err, time.Since(start))
	if err != nil {
		return nil, appErrors.Internal(err, externalCallFailed)
	}

	s.cache.Store(ctx, externalDataCacheKey, externalDataCacheEntry{HasAPISecret: hasSecret})
	return s.response(hasSecret), nil
}

func (s *ExternalDataService) call(ctx context.Context) (bool, error) {
	endpoint, err := s.config.Lookup(ctx, config.KeyExternalAPIURL)
	if err != nil {
		return false, err
	}
	hasSecret, err := s.config.IsConfigured(ctx, config.KeyExternalSecret)
	if err != nil {
		return false, err
	}

	s.logger.Info("calling external API", zap.String("host", hostOf(endpoint)), zap.Bool("has_secret", hasSecret))

	if s.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.Timeout)
		defer cancel()
	}
	timer := time.NewTimer(s.settings.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-timer.C:
	}
	return hasSecret, nil
}

func (s *ExternalDataService) response(hasSecret bool) *dto.ExternalDataResponse {
	return &dto.ExternalDataResponse{
		Message:      externalCallDone,
		Timestamp:    s.now().UTC(),
		HasAPISecret: hasSecret,
	}
}

func hostOf(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid"
	}
	return u.Host
}
