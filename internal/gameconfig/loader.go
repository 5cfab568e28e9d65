package gameconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"gopkg.in/yaml.v3"

	"github.com/osse101/SlotForge_Go/internal/domain"
	"github.com/osse101/SlotForge_Go/internal/validation"
)

// Format is the encoding of a configuration document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the document format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}

// Loader reads game documents, validates them against the JSON schema and
// the semantic rules, and caches results by path and content hash
type Loader struct {
	schema     validation.SchemaValidator
	schemaPath string
	cache      *expirable.LRU[string, *cachedConfig]
}

type cachedConfig struct {
	hash string
	cfg  *domain.GameConfig
}

// NewLoader creates a loader. An empty schemaPath skips schema validation.
func NewLoader(schemaPath string, cacheSize int, ttl time.Duration) *Loader {
	if cacheSize < 1 {
		cacheSize = 1
	}
	return &Loader{
		schema:     validation.NewSchemaValidator(),
		schemaPath: schemaPath,
		cache:      expirable.NewLRU[string, *cachedConfig](cacheSize, nil, ttl),
	}
}

// Load reads and validates the document at path. An unchanged file is
// served from the cache; the returned config must be treated as read-only.
func (l *Loader) Load(path string) (*domain.GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config %s: %w", path, err)
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	if entry, ok := l.cache.Get(path); ok && entry.hash == hash {
		return entry.cfg, nil
	}

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	cfg, err := l.Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.cache.Add(path, &cachedConfig{hash: hash, cfg: cfg})
	return cfg, nil
}

// Parse decodes and validates a document held in memory
func (l *Loader) Parse(data []byte, format Format) (*domain.GameConfig, error) {
	raw, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}

	if l.schemaPath != "" {
		if err := l.schema.ValidateBytes(raw, l.schemaPath); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
		}
	}

	var cfg domain.GameConfig
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Invalidate drops a cached document
func (l *Loader) Invalidate(path string) {
	l.cache.Remove(path)
}

// toJSON converts a document to canonical JSON so both formats share one
// schema and one decoder
func toJSON(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		if !json.Valid(data) {
			return nil, fmt.Errorf("%w: document is not valid JSON", domain.ErrInvalidConfig)
		}
		return data, nil
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
		}
		out, err := json.Marshal(normalizeYAML(doc))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
}

// normalizeYAML rewrites YAML mappings with non-string keys (reel indexes,
// paytable counts) into string-keyed maps that encoding/json accepts
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = normalizeYAML(t[i])
		}
		return t
	default:
		return v
	}
}
