package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/inventory-api/internal/repository"
	"github.com/noah-isme/inventory-api/pkg/config"
	appErrors "github.com/noah-isme/inventory-api/pkg/errors"
)

type countingLookup struct {
	values map[string]string
	err    error
	calls  int
}

func (c *countingLookup) Lookup(_ context.Context, key string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.values[key], nil
}

func (c *countingLookup) IsConfigured(ctx context.Context, key string) (bool, error) {
	v, err := c.Lookup(ctx, key)
	return v != "", err
}

func secretResolver(secret string) *config.Resolver {
	return config.NewResolver(config.NewMapLayer(config.SourceEnv, map[string]string{
		config.KeyExternalAPIURL: "https://partner.example.test/v1",
		config.KeyExternalSecret: secret,
	}))
}

func TestExternalDataReportsSecretPresenceOnly(t *testing.T) {
	svc := NewExternalDataService(secretResolver("sup3r-s3cret"), nil, nil, config.ExternalAPIConfig{Delay: time.Millisecond}, nil)

	resp, err := svc.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "External API call completed successfully", resp.Message)
	assert.True(t, resp.HasAPISecret)
	assert.False(t, resp.Timestamp.IsZero())

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "sup3r-s3cret")
	assert.Contains(t, string(raw), `"hasApiSecret":true`)
}

func TestExternalDataWithoutSecret(t *testing.T) {
	svc := NewExternalDataService(secretResolver(""), nil, nil, config.ExternalAPIConfig{}, nil)
	resp, err := svc.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.HasAPISecret)
}

func TestExternalDataCancelledContextIsInternalFailure(t *testing.T) {
	svc := NewExternalDataService(secretResolver("x"), nil, nil, config.ExternalAPIConfig{Delay: time.Minute}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Fetch(ctx)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "Error calling external API", appErr.Message)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExternalDataTimeout(t *testing.T) {
	svc := NewExternalDataService(secretResolver("x"), nil, nil, config.ExternalAPIConfig{Delay: time.Minute, Timeout: 10 * time.Millisecond}, nil)
	_, err := svc.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExternalDataConfigFailureIsInternal(t *testing.T) {
	lookup := &countingLookup{err: errors.New("vault unreachable")}
	svc := NewExternalDataService(lookup, nil, nil, config.ExternalAPIConfig{}, nil)
	_, err := svc.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Error calling external API", appErrors.FromError(err).Message)
}

func TestExternalDataServedFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	metrics := NewMetricsService()
	cache := NewCacheService(repository.NewCacheRepository(client, "inventory:"), CacheOptions{TTL: time.Minute, Metrics: metrics})

	lookup := &countingLookup{values: map[string]string{config.KeyExternalSecret: "hidden-value"}}
	svc := NewExternalDataService(lookup, cache, metrics, config.ExternalAPIConfig{CacheTTL: time.Minute}, nil)

	first, err := svc.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, first.HasAPISecret)
	callsAfterFirst := lookup.calls

	second, err := svc.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, second.HasAPISecret)
	assert.Equal(t, callsAfterFirst, lookup.calls)

	stored, err := mr.Get("inventory:" + externalDataCacheKey)
	require.NoError(t, err)
	assert.NotContains(t, stored, "hidden-value")
}

func TestExternalDataSurvivesCacheOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCacheService(repository.NewCacheRepository(client, "inventory:"), CacheOptions{TTL: time.Minute})
	mr.Close()

	svc := NewExternalDataService(secretResolver(""), cache, nil, config.ExternalAPIConfig{}, nil)
	resp, err := svc.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.HasAPISecret)
}
