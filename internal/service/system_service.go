package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/inventory-api/internal/dto"
	"github.com/noah-isme/inventory-api/pkg/config"
)

// Version is the API version reported by /api/version and readiness.
const Version = "2.0.0"

const unknownBuildValue = "Unknown"

type dependencyCheck interface {
	Configured() bool
	Ping(ctx context.Context) error
}

// SystemService answers the health, version and configuration status probes.
type SystemService struct {
	config      *config.Resolver
	redis       dependencyCheck
	environment string
	logger      *zap.Logger
	now         func() time.Time
}

// NewSystemService constructs the service. An unconfigured or nil redis check
// is reported as disabled.
func NewSystemService(cfg *config.Resolver, redis dependencyCheck, environment string, logger *zap.Logger) *SystemService {
	if cfg == nil {
		cfg = config.NewResolver()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SystemService{config: cfg, redis: redis, environment: environment, logger: logger, now: time.Now}
}

// Health is the liveness answer.
func (s *SystemService) Health() dto.HealthResponse {
	return dto.HealthResponse{Status: "healthy", Timestamp: s.now().UTC()}
}

// Readiness reports dependency state. It never fails; a broken dependency
// downgrades the status to degraded.
func (s *SystemService) Readiness(ctx context.Context) dto.ReadinessResponse {
	checks := map[string]string{"redis": "disabled"}
	status := "ready"
	if s.redis != nil && s.redis.Configured() {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.redis.Ping(pingCtx); err != nil {
			s.logger.Warn("readiness check failed", zap.String("check", "redis"), zap.Error(err))
			checks["redis"] = "unavailable"
			status = "degraded"
		} else {
			checks["redis"] = "ok"
		}
	}
	return dto.ReadinessResponse{
		Status:      status,
		Timestamp:   s.now().UTC(),
		Environment: s.environment,
		Version:     Version,
		Checks:      checks,
	}
}

// Version reports build metadata. Unset or unreadable build keys read as
// "Unknown".
func (s *SystemService) Version(ctx context.Context) dto.VersionResponse {
	return dto.VersionResponse{
		Version:     Version,
		BuildDate:   s.lookupOrUnknown(ctx, config.KeyBuildDate),
		BuildNumber: s.lookupOrUnknown(ctx, config.KeyBuildNumber),
		Environment: s.environment,
	}
}

// ConfigStatus reports whether the remote secret store is configured without
// exposing its location. Only the local layers are consulted.
func (s *SystemService) ConfigStatus(ctx context.Context) dto.ConfigStatusResponse {
	configured := s.config.HasSource(config.SourceVault)
	if !configured {
		var err error
		configured, err = s.config.Local().IsConfigured(ctx, config.KeyVaultEndpoint)
		if err != nil {
			s.logger.Warn("config status lookup failed", zap.String("key", config.KeyVaultEndpoint), zap.Error(err))
			configured = false
		}
	}
	return dto.ConfigStatusResponse{
		KeyVaultConfigured: configured,
		Environment:        s.environment,
		Timestamp:          s.now().UTC(),
	}
}

func (s *SystemService) lookupOrUnknown(ctx context.Context, key string) string {
	v, err := s.config.Lookup(ctx, key)
	if err != nil {
		s.logger.Warn("build metadata lookup failed", zap.String("key", key), zap.Error(err))
		return unknownBuildValue
	}
	if v == "" {
		return unknownBuildValue
	}
	return v
}
