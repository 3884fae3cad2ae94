package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type secretsClientStub struct {
	secrets map[string]string
	err     error
	calls   []string
}

func (s *secretsClientStub) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	id := aws.ToString(in.SecretId)
	s.calls = append(s.calls, id)
	if s.err != nil {
		return nil, s.err
	}
	value, ok := s.secrets[id]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("secret not found")}
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(value)}, nil
}

func TestResolverLaterLayerWins(t *testing.T) {
	res := NewResolver(
		NewMapLayer(SourceFile, map[string]string{"api_key": "from-file", "build.date": "2024-01-01"}),
		NewMapLayer(SourceEnv, map[string]string{"api_key": "from-env"}),
	)

	v, ok, err := res.Resolve(context.Background(), "api_key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "from-env", v.Value)
	assert.Equal(t, SourceEnv, v.Source)

	v, ok, err = res.Resolve(context.Background(), "BUILD.DATE")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01", v.Value)
	assert.Equal(t, SourceFile, v.Source)
}

func TestResolverMissingKeyIsAbsentNotError(t *testing.T) {
	res := NewResolver(NewMapLayer(SourceFile, map[string]string{"other": "x"}))
	v, ok, err := res.Resolve(context.Background(), "api_key")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v.Value)
}

func TestResolverEmptyValueFallsThrough(t *testing.T) {
	res := NewResolver(
		NewMapLayer(SourceFile, map[string]string{"api_key": "from-file"}),
		NewMapLayer(SourceEnv, map[string]string{"api_key": ""}),
	)
	v, err := res.Lookup(context.Background(), "api_key")
	require.NoError(t, err)
	assert.Equal(t, "from-file", v)
}

func TestResolverObserverSeesSource(t *testing.T) {
	res := NewResolver(NewMapLayer(SourceEnv, map[string]string{"api_key": "k"}))
	var seen []Source
	res.Observe(func(_ string, source Source, found bool) {
		if found {
			seen = append(seen, source)
		}
	})
	_, err := res.Lookup(context.Background(), "api_key")
	require.NoError(t, err)
	_, err = res.Lookup(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, []Source{SourceEnv}, seen)
}

func TestVaultLayerOverridesLocalLayers(t *testing.T) {
	client := &secretsClientStub{secrets: map[string]string{"inventory-api/external_api_secret": "s3cr3t"}}
	vault := NewVaultLayerWithClient(client, VaultOptions{Prefix: "inventory-api/"})
	res := NewResolver(
		NewMapLayer(SourceEnv, map[string]string{"external_api_secret": "local", "api_key": "local-key"}),
		vault,
	)

	v, ok, err := res.Resolve(context.Background(), KeyExternalSecret)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "s3cr3t", v.Value)
	assert.Equal(t, SourceVault, v.Source)

	v, ok, err = res.Resolve(context.Background(), KeyAPIKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, SourceEnv, v.Source)
}

func TestVaultLayerMapsDotsToPath(t *testing.T) {
	client := &secretsClientStub{}
	vault := NewVaultLayerWithClient(client, VaultOptions{Prefix: "svc/"})
	_, ok, err := vault.Lookup(context.Background(), "api_settings.external_api_url")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"svc/api_settings/external_api_url"}, client.calls)
}

func TestVaultLayerCachesLookups(t *testing.T) {
	client := &secretsClientStub{secrets: map[string]string{"api_key": "k"}}
	vault := NewVaultLayerWithClient(client, VaultOptions{CacheTTL: time.Minute})
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	vault.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		v, ok, err := vault.Lookup(context.Background(), "api_key")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "k", v)
	}
	_, _, err := vault.Lookup(context.Background(), "missing")
	require.NoError(t, err)
	_, _, err = vault.Lookup(context.Background(), "missing")
	require.NoError(t, err)
	assert.Len(t, client.calls, 2)

	now = now.Add(2 * time.Minute)
	_, _, err = vault.Lookup(context.Background(), "api_key")
	require.NoError(t, err)
	assert.Len(t, client.calls, 3)
}

func TestVaultLayerTransportErrorPropagates(t *testing.T) {
	client := &secretsClientStub{err: errors.New("connection reset")}
	res := NewResolver(NewVaultLayerWithClient(client, VaultOptions{}))
	_, _, err := res.Resolve(context.Background(), KeyAPIKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault")
}

func TestLocalDropsVaultLayer(t *testing.T) {
	client := &secretsClientStub{}
	res := NewResolver(NewMapLayer(SourceDefault, defaults), NewVaultLayerWithClient(client, VaultOptions{}))
	require.True(t, res.HasSource(SourceVault))

	local := res.Local()
	assert.False(t, local.HasSource(SourceVault))
	_, err := local.Lookup(context.Background(), "port")
	require.NoError(t, err)
	assert.Empty(t, client.calls)
}

func TestLoadFileLayerFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"appsettings.yaml": "api_settings:\n  external_api_url: https://example.test\nrate_limit:\n  rps: 5\ncors:\n  allowed_origins:\n    - https://a.test\n    - https://b.test\n",
		"appsettings.toml": "[api_settings]\nexternal_api_url = \"https://example.test\"\n\n[rate_limit]\nrps = 5\n\n[cors]\nallowed_origins = [\"https://a.test\", \"https://b.test\"]\n",
		"appsettings.json": `{"api_settings": {"external_api_url": "https://example.test"}, "rate_limit": {"rps": 5}, "cors": {"allowed_origins": ["https://a.test", "https://b.test"]}}`,
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

		layer, err := LoadFileLayer(path)
		require.NoError(t, err, name)
		assert.Equal(t, SourceFile, layer.Source())

		v, ok, err := layer.Lookup(context.Background(), "api_settings.external_api_url")
		require.NoError(t, err)
		assert.True(t, ok, name)
		assert.Equal(t, "https://example.test", v, name)

		v, _, _ = layer.Lookup(context.Background(), "rate_limit.rps")
		assert.Equal(t, "5", v, name)

		v, _, _ = layer.Lookup(context.Background(), "cors.allowed_origins")
		assert.Equal(t, "https://a.test,https://b.test", v, name)
	}
}

func TestLoadFileLayerRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.ini")
	require.NoError(t, os.WriteFile(path, []byte("a=b"), 0o600))
	_, err := LoadFileLayer(path)
	require.Error(t, err)
}

func TestEnvLayerMapsDottedKeys(t *testing.T) {
	t.Setenv("API_SETTINGS_EXTERNAL_API_URL", "https://env.test")
	layer, err := NewEnvLayer("")
	require.NoError(t, err)

	v, ok, err := layer.Lookup(context.Background(), "api_settings.external_api_url")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://env.test", v)

	_, ok, err = layer.Lookup(context.Background(), "not.set.anywhere")
	require.NoError(t, err)
	assert.False(t, ok)
}
