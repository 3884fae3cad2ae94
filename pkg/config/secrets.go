package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
)

// SecretsClient is the subset of the Secrets Manager API the vault layer uses.
type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// VaultOptions configures the remote secret store layer.
type VaultOptions struct {
	Endpoint string
	Region   string
	Prefix   string
	CacheTTL time.Duration
}

type cachedSecret struct {
	value     string
	found     bool
	expiresAt time.Time
}

// VaultLayer resolves keys from a remote secret store. Key "external_api_secret"
// with prefix "inventory-api/" reads the secret "inventory-api/external_api_secret";
// dots in keys become path separators.
type VaultLayer struct {
	client SecretsClient
	prefix string
	ttl    time.Duration
	now    func() time.Time

	mu    sync.Mutex
	cache map[string]cachedSecret
}

// NewVaultLayer builds a Secrets Manager client pointed at opts.Endpoint.
func NewVaultLayer(ctx context.Context, opts VaultOptions) (*VaultLayer, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("vault endpoint is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := secretsmanager.NewFromConfig(cfg, func(o *secretsmanager.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	})
	return NewVaultLayerWithClient(client, opts), nil
}

// NewVaultLayerWithClient wires the layer to an existing client.
func NewVaultLayerWithClient(client SecretsClient, opts VaultOptions) *VaultLayer {
	return &VaultLayer{
		client: client,
		prefix: opts.Prefix,
		ttl:    opts.CacheTTL,
		now:    time.Now,
		cache:  make(map[string]cachedSecret),
	}
}

func (l *VaultLayer) Source() Source { return SourceVault }

func (l *VaultLayer) Lookup(ctx context.Context, key string) (string, bool, error) {
	if cached, ok := l.cached(key); ok {
		return cached.value, cached.found, nil
	}

	out, err := l.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(l.secretID(key)),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			l.store(key, "", false)
			return "", false, nil
		}
		return "", false, fmt.Errorf("get secret: %w", err)
	}

	var value string
	switch {
	case out.SecretString != nil:
		value = *out.SecretString
	case len(out.SecretBinary) > 0:
		value = string(out.SecretBinary)
	}
	found := value != ""
	l.store(key, value, found)
	return value, found, nil
}

func (l *VaultLayer) secretID(key string) string {
	return l.prefix + strings.ReplaceAll(key, ".", "/")
}

func (l *VaultLayer) cached(key string) (cachedSecret, bool) {
	if l.ttl <= 0 {
		return cachedSecret{}, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.cache[key]
	if !ok || !l.now().Before(entry.expiresAt) {
		return cachedSecret{}, false
	}
	return entry, true
}

func (l *VaultLayer) store(key, value string, found bool) {
	if l.ttl <= 0 {
		return
	}
	l.mu.Lock()
	l.cache[key] = cachedSecret{value: value, found: found, expiresAt: l.now().Add(l.ttl)}
	l.mu.Unlock()
}
