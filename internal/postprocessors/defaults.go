package postprocessors

import (
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/postprocessors/blankfilter"
	"github.com/custodia-labs/docchat/internal/postprocessors/chunker"
)

// DefaultPipeline is the processor order used when the config names none.
var DefaultPipeline = []string{"chunker", "blank_filter"}

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
	r.Register("blank_filter", func(map[string]any) (driven.PostProcessor, error) {
		return blankfilter.New(), nil
	})
}

// FromConfig builds the default pipeline with chunker settings read from the
// config store keys chunker.chunk_size and chunker.chunk_overlap.
func FromConfig(store driven.ConfigStore) (*Pipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r)

	chunkerCfg := map[string]any{}
	if store != nil {
		if v, ok := store.Get("chunker.chunk_size"); ok {
			chunkerCfg["chunk_size"] = v
		}
		if v, ok := store.Get("chunker.chunk_overlap"); ok {
			chunkerCfg["overlap"] = v
		}
	}

	return r.BuildPipeline(DefaultPipeline, map[string]map[string]any{
		"chunker": chunkerCfg,
	})
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 1000)
//   - overlap (int): Overlapping characters between chunks (default: 200)
//
// Present but invalid values are rejected with domain.ErrInvalidInput.
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if size, ok := getIntFromConfig(cfg, "chunk_size"); ok {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap, ok := getIntFromConfig(cfg, "overlap"); ok {
		opts = append(opts, chunker.WithOverlap(overlap))
	}

	return chunker.New(opts...)
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
