package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DefaultSettingsFile = "appsettings.yaml"
	DefaultDotEnvFile   = ".env"
)

// Request-time keys resolved by handlers.
const (
	KeyVaultEndpoint  = "vault.endpoint"
	KeyAPIKey         = "api_key"
	KeyExternalAPIURL = "api_settings.external_api_url"
	KeyExternalSecret = "external_api_secret"
	KeyBuildDate      = "build.date"
	KeyBuildNumber    = "build.number"
)

type Config struct {
	Env  string
	Port int

	Server      ServerConfig
	Log         LogConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Redis       RedisConfig
	Events      EventsConfig
	ExternalAPI ExternalAPIConfig
	Vault       VaultConfig
}

type ServerConfig struct {
	ShutdownGracePeriod time.Duration
	ReadHeaderTimeout   time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig tunes the token bucket guarding the API. RPS 0 disables it.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// EventsConfig configures item event publishing. An empty NATSURL disables it.
type EventsConfig struct {
	NATSURL       string
	SubjectPrefix string
	Workers       int
	MaxRetries    int
	RetryDelay    time.Duration
}

// ExternalAPIConfig governs the outbound external data call.
type ExternalAPIConfig struct {
	Delay    time.Duration
	Timeout  time.Duration
	CacheTTL time.Duration
}

// VaultConfig locates the remote secret store. Empty Endpoint disables the layer.
type VaultConfig struct {
	Endpoint string
	Region   string
	Prefix   string
	CacheTTL time.Duration
}

// Options selects local configuration sources.
type Options struct {
	// SettingsFile is the local settings document. A missing file at the
	// default path is ignored; an explicitly named file must exist.
	SettingsFile string
	DotEnvFile   string
	// Overrides come from command-line flags and beat every local layer.
	Overrides map[string]string
}

var defaults = map[string]string{
	"env":                          EnvDevelopment,
	"port":                         "8080",
	"server.shutdown_grace_period": "10s",
	"server.read_header_timeout":   "5s",
	"log.level":                    "info",
	"log.format":                   "json",
	"cors.allowed_origins":         "",
	"rate_limit.rps":               "25",
	"rate_limit.burst":             "50",
	"redis.enabled":                "false",
	"redis.host":                   "localhost",
	"redis.port":                   "6379",
	"redis.db":                     "0",
	"events.subject_prefix":        "inventory",
	"events.workers":               "1",
	"events.max_retries":           "3",
	"events.retry_delay":           "1s",
	"external_api.delay":           "100ms",
	"external_api.timeout":         "5s",
	"external_api.cache_ttl":       "0s",
	"vault.prefix":                 "inventory-api/",
	"vault.cache_ttl":              "5m",
}

// NewLayeredResolver assembles the layered resolver: built-in defaults, the local
// settings file, the process environment, command-line overrides and, when
// vault.endpoint resolves from those, the remote secret store.
func NewLayeredResolver(ctx context.Context, opts Options) (*Resolver, error) {
	layers := []Layer{NewMapLayer(SourceDefault, defaults)}

	settingsFile := opts.SettingsFile
	explicit := settingsFile != ""
	if !explicit {
		settingsFile = DefaultSettingsFile
	}
	fileLayer, err := LoadFileLayer(settingsFile)
	switch {
	case err == nil:
		layers = append(layers, fileLayer)
	case !explicit && errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	dotEnv := opts.DotEnvFile
	if dotEnv == "" {
		dotEnv = DefaultDotEnvFile
	}
	envLayer, err := NewEnvLayer(dotEnv)
	if err != nil {
		return nil, err
	}
	layers = append(layers, envLayer)
	if len(opts.Overrides) > 0 {
		layers = append(layers, NewMapLayer(SourceFlag, opts.Overrides))
	}

	local := NewResolver(layers...)
	vault, err := loadVault(ctx, local)
	if err != nil {
		return nil, err
	}
	if vault.Endpoint == "" {
		return local, nil
	}

	vaultLayer, err := NewVaultLayer(ctx, VaultOptions(vault))
	if err != nil {
		return nil, fmt.Errorf("init vault layer: %w", err)
	}
	return NewResolver(append(layers, vaultLayer)...), nil
}

func loadVault(ctx context.Context, res *Resolver) (VaultConfig, error) {
	r := &reader{ctx: ctx, res: res}
	cfg := VaultConfig{
		Endpoint: r.string(KeyVaultEndpoint),
		Region:   r.string("vault.region"),
		Prefix:   r.string("vault.prefix"),
		CacheTTL: r.duration("vault.cache_ttl"),
	}
	return cfg, r.err
}

// Load reads the ambient service settings through the local layers of the
// resolver. The remote secret store only serves request-time keys.
func Load(ctx context.Context, res *Resolver) (*Config, error) {
	res = res.Local()
	r := &reader{ctx: ctx, res: res}

	cfg := &Config{}
	cfg.Env = r.string("env")
	cfg.Port = r.int("port")

	cfg.Server = ServerConfig{
		ShutdownGracePeriod: r.duration("server.shutdown_grace_period"),
		ReadHeaderTimeout:   r.duration("server.read_header_timeout"),
	}

	cfg.Log = LogConfig{
		Level:  r.string("log.level"),
		Format: r.string("log.format"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: r.list("cors.allowed_origins")}

	cfg.RateLimit = RateLimitConfig{
		RPS:   r.float("rate_limit.rps"),
		Burst: r.int("rate_limit.burst"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  r.bool("redis.enabled"),
		Host:     r.string("redis.host"),
		Port:     r.int("redis.port"),
		Password: r.string("redis.password"),
		DB:       r.int("redis.db"),
	}

	cfg.Events = EventsConfig{
		NATSURL:       r.string("events.nats_url"),
		SubjectPrefix: r.string("events.subject_prefix"),
		Workers:       r.int("events.workers"),
		MaxRetries:    r.int("events.max_retries"),
		RetryDelay:    r.duration("events.retry_delay"),
	}

	cfg.ExternalAPI = ExternalAPIConfig{
		Delay:    r.duration("external_api.delay"),
		Timeout:  r.duration("external_api.timeout"),
		CacheTTL: r.duration("external_api.cache_ttl"),
	}

	vault, err := loadVault(ctx, res)
	if err != nil {
		return nil, err
	}
	cfg.Vault = vault

	if r.err != nil {
		return nil, r.err
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.RateLimit.RPS < 0 {
		return nil, fmt.Errorf("rate_limit.rps must not be negative")
	}
	return cfg, nil
}
