package dto

import "time"

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadinessResponse adds dependency checks to the liveness payload.
type ReadinessResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Environment string            `json:"environment"`
	Version     string            `json:"version"`
	Checks      map[string]string `json:"checks"`
}

// VersionResponse describes the running build.
type VersionResponse struct {
	Version     string `json:"version"`
	BuildDate   string `json:"buildDate"`
	BuildNumber string `json:"buildNumber"`
	Environment string `json:"environment"`
}

// ConfigStatusResponse reports whether optional configuration sources are wired.
type ConfigStatusResponse struct {
	KeyVaultConfigured bool      `json:"keyVaultConfigured"`
	Environment        string    `json:"environment"`
	Timestamp          time.Time `json:"timestamp"`
}
