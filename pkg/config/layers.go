package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// MapLayer serves values from a fixed map. Used for built-in defaults.
type MapLayer struct {
	source Source
	values map[string]string
}

// NewMapLayer copies values into a layer reporting the given source.
func NewMapLayer(source Source, values map[string]string) *MapLayer {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[normalizeKey(k)] = v
	}
	return &MapLayer{source: source, values: copied}
}

func (l *MapLayer) Source() Source { return l.source }

func (l *MapLayer) Lookup(_ context.Context, key string) (string, bool, error) {
	v, ok := l.values[key]
	return v, ok, nil
}

// Keys lists the keys held by the layer in sorted order.
func (l *MapLayer) Keys() []string {
	keys := make([]string, 0, len(l.values))
	for k := range l.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadFileLayer parses a local settings document (yaml, yml, toml or json)
// and flattens nested sections into dotted keys.
func LoadFileLayer(path string) (*MapLayer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	doc := map[string]interface{}{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	case ".json":
		err = json.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unsupported settings format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", path, err)
	}

	values := make(map[string]string)
	if err := flatten("", doc, values); err != nil {
		return nil, fmt.Errorf("flatten settings file %s: %w", path, err)
	}
	return NewMapLayer(SourceFile, values), nil
}

func flatten(prefix string, node map[string]interface{}, out map[string]string) error {
	for k, v := range node {
		key := normalizeKey(k)
		if prefix != "" {
			key = prefix + "." + key
		}
		switch typed := v.(type) {
		case map[string]interface{}:
			if err := flatten(key, typed, out); err != nil {
				return err
			}
		case []interface{}:
			items, err := cast.ToStringSliceE(typed)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			out[key] = strings.Join(items, ",")
		case nil:
			out[key] = ""
		default:
			s, err := cast.ToStringE(typed)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			out[key] = s
		}
	}
	return nil
}

// EnvLayer resolves keys against the process environment: "vault.endpoint"
// is read from VAULT_ENDPOINT.
type EnvLayer struct {
	v *viper.Viper
}

// NewEnvLayer loads an optional dotenv file into the process environment and
// returns a layer reading from it.
func NewEnvLayer(dotEnvFile string) (*EnvLayer, error) {
	if dotEnvFile != "" {
		if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotEnvFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return &EnvLayer{v: v}, nil
}

func (l *EnvLayer) Source() Source { return SourceEnv }

func (l *EnvLayer) Lookup(_ context.Context, key string) (string, bool, error) {
	if !l.v.IsSet(key) {
		return "", false, nil
	}
	return l.v.GetString(key), true, nil
}
