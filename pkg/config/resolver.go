package config

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
)

// Source identifies the layer a value was resolved from.
type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
	SourceVault   Source = "vault"
)

// Value is a resolved configuration entry.
type Value struct {
	Key    string
	Value  string
	Source Source
}

// Layer is a single configuration source.
type Layer interface {
	Source() Source
	Lookup(ctx context.Context, key string) (string, bool, error)
}

// LookupObserver is notified after every resolution.
type LookupObserver func(key string, source Source, found bool)

// Resolver merges layers into one lookup surface. Layers are ordered lowest
// priority first; the last layer holding a non-empty value wins.
type Resolver struct {
	layers []Layer

	mu       sync.RWMutex
	observer LookupObserver
}

// NewResolver builds a resolver over the given layers.
func NewResolver(layers ...Layer) *Resolver {
	filtered := make([]Layer, 0, len(layers))
	for _, layer := range layers {
		if layer != nil {
			filtered = append(filtered, layer)
		}
	}
	return &Resolver{layers: filtered}
}

// Observe registers a callback invoked after each resolution.
func (r *Resolver) Observe(fn LookupObserver) {
	r.mu.Lock()
	r.observer = fn
	r.mu.Unlock()
}

// Local returns a resolver over every layer except the remote secret store.
func (r *Resolver) Local() *Resolver {
	if !r.HasSource(SourceVault) {
		return r
	}
	local := make([]Layer, 0, len(r.layers))
	for _, layer := range r.layers {
		if layer.Source() != SourceVault {
			local = append(local, layer)
		}
	}
	return NewResolver(local...)
}

// HasSource reports whether a layer of the given kind is active.
func (r *Resolver) HasSource(source Source) bool {
	for _, layer := range r.layers {
		if layer.Source() == source {
			return true
		}
	}
	return false
}

// Resolve returns the winning value for key. A key missing from every layer is
// reported with ok=false and a nil error.
func (r *Resolver) Resolve(ctx context.Context, key string) (Value, bool, error) {
	key = normalizeKey(key)
	for i := len(r.layers) - 1; i >= 0; i-- {
		layer := r.layers[i]
		raw, ok, err := layer.Lookup(ctx, key)
		if err != nil {
			return Value{}, false, fmt.Errorf("resolve %s from %s layer: %w", key, layer.Source(), err)
		}
		if ok && raw != "" {
			r.notify(key, layer.Source(), true)
			return Value{Key: key, Value: raw, Source: layer.Source()}, true, nil
		}
	}
	r.notify(key, "", false)
	return Value{Key: key}, false, nil
}

// Lookup returns the resolved string or "" when absent.
func (r *Resolver) Lookup(ctx context.Context, key string) (string, error) {
	v, _, err := r.Resolve(ctx, key)
	if err != nil {
		return "", err
	}
	return v.Value, nil
}

// IsConfigured reports whether key resolves to a non-empty value.
func (r *Resolver) IsConfigured(ctx context.Context, key string) (bool, error) {
	_, ok, err := r.Resolve(ctx, key)
	return ok, err
}

func (r *Resolver) notify(key string, source Source, found bool) {
	r.mu.RLock()
	fn := r.observer
	r.mu.RUnlock()
	if fn != nil {
		fn(key, source, found)
	}
}

// reader pulls typed values off a resolver, keeping the first error.
type reader struct {
	ctx context.Context
	res *Resolver
	err error
}

func (r *reader) string(key string) string {
	if r.err != nil {
		return ""
	}
	v, err := r.res.Lookup(r.ctx, key)
	if err != nil {
		r.err = err
		return ""
	}
	return v
}

func (r *reader) int(key string) int {
	raw := r.string(key)
	if raw == "" {
		return 0
	}
	v, err := cast.ToIntE(raw)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("config %s: %w", key, err)
	}
	return v
}

func (r *reader) float(key string) float64 {
	raw := r.string(key)
	if raw == "" {
		return 0
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("config %s: %w", key, err)
	}
	return v
}

func (r *reader) bool(key string) bool {
	raw := r.string(key)
	if raw == "" {
		return false
	}
	v, err := cast.ToBoolE(raw)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("config %s: %w", key, err)
	}
	return v
}

func (r *reader) duration(key string) time.Duration {
	raw := r.string(key)
	if raw == "" {
		return 0
	}
	v, err := cast.ToDurationE(raw)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("config %s: %w", key, err)
	}
	return v
}

func (r *reader) list(key string) []string {
	return splitAndTrim(r.string(key))
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
