package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/inventory-api/pkg/errors"
)

// CacheStore is the backend behind CacheService. Configured reports whether a
// real backend is attached.
type CacheStore interface {
	Configured() bool
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CacheOptions tunes a CacheService. A zero TTL turns caching off.
type CacheOptions struct {
	TTL     time.Duration
	Metrics *MetricsService
	Logger  *zap.Logger
}

// CacheService is a best-effort read-through cache. Backend failures are
// logged and counted, and callers fall back to computing the value.
type CacheService struct {
	store   CacheStore
	ttl     time.Duration
	metrics *MetricsService
	logger  *zap.Logger
}

// NewCacheService constructs a cache service. store may be nil.
func NewCacheService(store CacheStore, opts CacheOptions) *CacheService {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &CacheService{store: store, ttl: opts.TTL, metrics: opts.Metrics, logger: opts.Logger}
}

// Enabled reports whether Load and Store reach a backend.
func (s *CacheService) Enabled() bool {
	return s != nil && s.ttl > 0 && s.store != nil && s.store.Configured()
}

// Load decodes the entry for key into dest and reports whether it was found.
func (s *CacheService) Load(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}
	start := time.Now()
	err := s.store.Get(ctx, key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	switch {
	case err == nil:
		return true
	case errors.Is(err, appErrors.ErrCacheMiss):
		s.logger.Debug("cache miss", zap.String("key", key))
	default:
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

// Store writes value under key for the configured TTL.
func (s *CacheService) Store(ctx context.Context, key string, value interface{}) {
	if !s.Enabled() {
		return
	}
	start := time.Now()
	err := s.store.Set(ctx, key, value, s.ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
