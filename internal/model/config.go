package model

import (
	"fmt"
	"time"
)

// Config is the complete, immutable configuration passed into every operation
type Config struct {
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding" mapstructure:"embedding"`
	Verify    VerifyConfig    `yaml:"verify" mapstructure:"verify"`
	Pacing    PacingConfig    `yaml:"pacing" mapstructure:"pacing"`
	Catalog   CatalogConfig   `yaml:"catalog" mapstructure:"catalog"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// LLMConfig configures the similarity judge provider
type LLMConfig struct {
	Provider    string        `yaml:"provider" mapstructure:"provider"` // openai, anthropic, gemini, ollama
	Model       string        `yaml:"model" mapstructure:"model"`
	APIKey      string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Temperature float32       `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"` // Per call

	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// EmbeddingConfig configures the embedding provider
type EmbeddingConfig struct {
	Provider   string        `yaml:"provider" mapstructure:"provider"` // openai, gemini, ollama
	Model      string        `yaml:"model" mapstructure:"model"`
	APIKey     string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL    string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Dimensions int           `yaml:"dimensions" mapstructure:"dimensions"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// VerifyConfig holds every threshold, weight and batch size of the engine
type VerifyConfig struct {
	IdeaThreshold       float64 `yaml:"idea_threshold" mapstructure:"idea_threshold"`               // Idea-level dedup against a focused subset
	GapThreshold        float64 `yaml:"gap_threshold" mapstructure:"gap_threshold"`                 // Catalog-wide gap verification
	HighConfidenceBelow float64 `yaml:"high_confidence_below" mapstructure:"high_confidence_below"` // Scores under this are "high"
	TitleWeight         float64 `yaml:"title_weight" mapstructure:"title_weight"`
	ContentWeight       float64 `yaml:"content_weight" mapstructure:"content_weight"`
	NeutralScore        float64 `yaml:"neutral_score" mapstructure:"neutral_score"` // Pads short judge arrays
	FailureScore        float64 `yaml:"failure_score" mapstructure:"failure_score"` // Reported when verification fails

	JudgeBatchSize    int `yaml:"judge_batch_size" mapstructure:"judge_batch_size"`
	EmbedBatchSize    int `yaml:"embed_batch_size" mapstructure:"embed_batch_size"`
	GapEmbedBatchSize int `yaml:"gap_embed_batch_size" mapstructure:"gap_embed_batch_size"`
	GapSampleSize     int `yaml:"gap_sample_size" mapstructure:"gap_sample_size"`
	PrefilterTopK     int `yaml:"prefilter_top_k" mapstructure:"prefilter_top_k"` // 0 disables the pre-filter
	Concurrency       int `yaml:"concurrency" mapstructure:"concurrency"`         // Lanes for multi-candidate runs
}

// PacingConfig sets the minimum delay between successive external calls
type PacingConfig struct {
	JudgeDelay     time.Duration `yaml:"judge_delay" mapstructure:"judge_delay"`
	EmbeddingDelay time.Duration `yaml:"embedding_delay" mapstructure:"embedding_delay"`
}

// CatalogConfig selects where existing titles come from
type CatalogConfig struct {
	Source     string `yaml:"source" mapstructure:"source"` // file, qdrant, postgres
	Collection string `yaml:"collection" mapstructure:"collection"`
	Limit      int    `yaml:"limit" mapstructure:"limit"` // Upper bound; large catalogs are truncated

	Path string `yaml:"path,omitempty" mapstructure:"path"`

	QdrantURL    string `yaml:"qdrant_url,omitempty" mapstructure:"qdrant_url"`
	QdrantAPIKey string `yaml:"qdrant_api_key,omitempty" mapstructure:"qdrant_api_key"`

	PostgresDSN      string `yaml:"postgres_dsn,omitempty" mapstructure:"postgres_dsn"`
	Table            string `yaml:"table" mapstructure:"table"`
	TitleColumn      string `yaml:"title_column" mapstructure:"title_column"`
	CollectionColumn string `yaml:"collection_column" mapstructure:"collection_column"`
	OrderColumn      string `yaml:"order_column" mapstructure:"order_column"`
}

// CacheConfig configures the embedding cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// LogConfig configures the slog handler
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // text, json
}

// DefaultConfig returns the defaults used by the original content-gap tooling
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Temperature: 0.1,
			MaxTokens:   400,
			Timeout:     30 * time.Second,
		},
		Embedding: EmbeddingConfig{
			Provider:   "openai",
			Model:      "text-embedding-3-large",
			Dimensions: 3072,
			Timeout:    30 * time.Second,
		},
		Verify: DefaultVerifyConfig(),
		Pacing: PacingConfig{
			JudgeDelay:     300 * time.Millisecond,
			EmbeddingDelay: 200 * time.Millisecond,
		},
		Catalog: CatalogConfig{
			Source:           "file",
			Limit:            1000,
			QdrantURL:        "http://localhost:6333",
			Table:            "content",
			TitleColumn:      "title",
			CollectionColumn: "collection",
			OrderColumn:      "id",
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".novelty/cache",
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultVerifyConfig returns the engine defaults
func DefaultVerifyConfig() VerifyConfig {
	return VerifyConfig{
		IdeaThreshold:       0.65,
		GapThreshold:        0.60,
		HighConfidenceBelow: 0.45,
		TitleWeight:         0.7,
		ContentWeight:       0.3,
		NeutralScore:        0.3,
		FailureScore:        0.5,
		JudgeBatchSize:      20,
		EmbedBatchSize:      50,
		GapEmbedBatchSize:   10,
		GapSampleSize:       50,
		PrefilterTopK:       30,
		Concurrency:         1,
	}
}

// Validate checks that every value is within its usable range
func (c *Config) Validate() error {
	if err := c.Verify.Validate(); err != nil {
		return err
	}
	if c.Pacing.JudgeDelay < 0 || c.Pacing.EmbeddingDelay < 0 {
		return fmt.Errorf("pacing delays cannot be negative")
	}
	if c.Catalog.Limit <= 0 {
		return fmt.Errorf("catalog.limit must be positive (got %d)", c.Catalog.Limit)
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions cannot be negative (got %d)", c.Embedding.Dimensions)
	}
	return nil
}

// Validate checks thresholds, weights and batch sizes
func (v VerifyConfig) Validate() error {
	for name, val := range map[string]float64{
		"idea_threshold":        v.IdeaThreshold,
		"gap_threshold":         v.GapThreshold,
		"high_confidence_below": v.HighConfidenceBelow,
		"title_weight":          v.TitleWeight,
		"content_weight":        v.ContentWeight,
		"neutral_score":         v.NeutralScore,
		"failure_score":         v.FailureScore,
	} {
		if val < 0.0 || val > 1.0 {
			return fmt.Errorf("verify.%s must be between 0.0 and 1.0 (got %.2f)", name, val)
		}
	}
	if sum := v.TitleWeight + v.ContentWeight; sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("verify.title_weight + verify.content_weight must equal 1.0 (got %.3f)", sum)
	}
	for name, val := range map[string]int{
		"judge_batch_size":     v.JudgeBatchSize,
		"embed_batch_size":     v.EmbedBatchSize,
		"gap_embed_batch_size": v.GapEmbedBatchSize,
		"gap_sample_size":      v.GapSampleSize,
		"concurrency":          v.Concurrency,
	} {
		if val <= 0 {
			return fmt.Errorf("verify.%s must be positive (got %d)", name, val)
		}
	}
	if v.PrefilterTopK < 0 {
		return fmt.Errorf("verify.prefilter_top_k cannot be negative (got %d)", v.PrefilterTopK)
	}
	return nil
}
