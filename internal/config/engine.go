// Package config provides environment-based configuration for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EngineConfig holds the ranking engine tunables.
type EngineConfig struct {
	LexicalWeight    float64       // hybrid weight for the BM25 component
	VectorWeight     float64       // hybrid weight for the vector component
	BM25K1           float64       // term-frequency saturation
	BM25B            float64       // length normalization
	EmbedTimeout     time.Duration // per-call embedding deadline
	VectorFloor      float64       // minimum vector score for a semantic explanation
	MaxExplanations  int           // explanations returned per result
	RecommendLimit   int           // results returned by a recommendation request
	EmbedDimensions  int           // local embedder dimensionality
	GeminiAPIKey     string        // empty selects the local hash embedder
	GeminiModel      string
	ReindexOnStartup bool
}

// NewEngineConfig reads engine tunables from the environment, applying
// defaults for anything unset. All numeric values are validated.
func NewEngineConfig() (*EngineConfig, error) {
	cfg := &EngineConfig{
		LexicalWeight:    0.5,
		VectorWeight:     0.5,
		BM25K1:           1.6,
		BM25B:            0.75,
		EmbedTimeout:     2 * time.Second,
		VectorFloor:      0.5,
		MaxExplanations:  6,
		RecommendLimit:   20,
		EmbedDimensions:  128,
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      os.Getenv("GEMINI_EMBED_MODEL"),
		ReindexOnStartup: true,
	}

	var err error
	if cfg.LexicalWeight, err = envFloat("RANK_LEXICAL_WEIGHT", cfg.LexicalWeight); err != nil {
		return nil, err
	}
	if cfg.VectorWeight, err = envFloat("RANK_VECTOR_WEIGHT", cfg.VectorWeight); err != nil {
		return nil, err
	}
	if cfg.BM25K1, err = envFloat("RANK_BM25_K1", cfg.BM25K1); err != nil {
		return nil, err
	}
	if cfg.BM25B, err = envFloat("RANK_BM25_B", cfg.BM25B); err != nil {
		return nil, err
	}
	if cfg.VectorFloor, err = envFloat("RANK_VECTOR_FLOOR", cfg.VectorFloor); err != nil {
		return nil, err
	}
	if cfg.MaxExplanations, err = envInt("RANK_MAX_EXPLANATIONS", cfg.MaxExplanations); err != nil {
		return nil, err
	}
	if cfg.RecommendLimit, err = envInt("RANK_RECOMMEND_LIMIT", cfg.RecommendLimit); err != nil {
		return nil, err
	}
	if cfg.EmbedDimensions, err = envInt("EMBED_DIMENSIONS", cfg.EmbedDimensions); err != nil {
		return nil, err
	}
	if timeoutMs, err := envInt("EMBED_TIMEOUT_MS", int(cfg.EmbedTimeout/time.Millisecond)); err != nil {
		return nil, err
	} else {
		cfg.EmbedTimeout = time.Duration(timeoutMs) * time.Millisecond
	}
	if v := os.Getenv("REINDEX_ON_STARTUP"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REINDEX_ON_STARTUP: %v", err)
		}
		cfg.ReindexOnStartup = b
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *EngineConfig) normalize() error {
	if c.LexicalWeight < 0 || c.VectorWeight < 0 {
		return fmt.Errorf("ranking weights must be non-negative, got lexical=%v vector=%v", c.LexicalWeight, c.VectorWeight)
	}
	if c.BM25K1 <= 0 {
		return fmt.Errorf("RANK_BM25_K1 must be positive, got: %v", c.BM25K1)
	}
	if c.BM25B < 0 || c.BM25B > 1 {
		return fmt.Errorf("RANK_BM25_B must be in [0,1], got: %v", c.BM25B)
	}
	if c.VectorFloor < 0 || c.VectorFloor > 1 {
		return fmt.Errorf("RANK_VECTOR_FLOOR must be in [0,1], got: %v", c.VectorFloor)
	}
	if c.MaxExplanations < 1 {
		return fmt.Errorf("RANK_MAX_EXPLANATIONS must be at least 1, got: %d", c.MaxExplanations)
	}
	if c.RecommendLimit < 1 {
		return fmt.Errorf("RANK_RECOMMEND_LIMIT must be at least 1, got: %d", c.RecommendLimit)
	}
	if c.EmbedDimensions < 1 {
		return fmt.Errorf("EMBED_DIMENSIONS must be at least 1, got: %d", c.EmbedDimensions)
	}
	if c.EmbedTimeout <= 0 {
		return fmt.Errorf("EMBED_TIMEOUT_MS must be positive, got: %v", c.EmbedTimeout)
	}
	return nil
}

func envFloat(name string, def float64) (float64, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return f, nil
}

func envInt(name string, def int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return n, nil
}
