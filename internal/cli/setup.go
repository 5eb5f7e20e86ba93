package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/novelty/internal/cache"
	"github.com/ppiankov/novelty/internal/catalog"
	"github.com/ppiankov/novelty/internal/embed"
	"github.com/ppiankov/novelty/internal/judge"
	"github.com/ppiankov/novelty/internal/llm"
	"github.com/ppiankov/novelty/internal/logging"
	"github.com/ppiankov/novelty/internal/model"
	"github.com/ppiankov/novelty/internal/util"
	"github.com/ppiankov/novelty/internal/verify"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// loadConfig merges defaults, config file, NOVELTY_* env vars and bound
// flags into a validated config. Provider keys come from their usual
// environment variables when not configured.
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()

	defaults, err := configMap(cfg)
	if err != nil {
		return nil, err
	}
	setDefaults(v, "", defaults)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	applyEnvKeys(cfg)

	if v.GetBool("verbose") {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// configMap renders cfg through its yaml tags, the same shape as the config file
func configMap(cfg *model.Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal defaults: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal defaults: %w", err)
	}
	return m, nil
}

// setDefaults registers every leaf key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, prefix string, m map[string]any) {
	for k, val := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := val.(map[string]any); ok {
			setDefaults(v, key, nested)
			continue
		}
		v.SetDefault(key, val)
	}
}

func applyEnvKeys(cfg *model.Config) {
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = providerKey(cfg.LLM.Provider)
	}
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = providerKey(cfg.Embedding.Provider)
	}
	if cfg.LLM.BaseURL == "" && strings.EqualFold(cfg.LLM.Provider, "ollama") {
		cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	if cfg.Catalog.QdrantAPIKey == "" {
		cfg.Catalog.QdrantAPIKey = os.Getenv("QDRANT_API_KEY")
	}
	if cfg.Catalog.PostgresDSN == "" {
		cfg.Catalog.PostgresDSN = os.Getenv("DATABASE_URL")
	}
}

func providerKey(provider string) string {
	switch strings.ToLower(provider) {
	case "openai", "":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "gemini", "google":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GOOGLE_API_KEY")
	default:
		return ""
	}
}

func newLogger(cfg *model.Config) *slog.Logger {
	return logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
}

// buildEngine wires providers, the embedding cache and pacing lanes
func buildEngine(ctx context.Context, cfg *model.Config, logger *slog.Logger) (*verify.Engine, error) {
	provider, err := llm.NewProvider(ctx, llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("create judge provider: %w", err)
	}
	if provider == nil {
		logger.Warn("no judge provider configured, title scores use lexical overlap")
	}

	embedder, err := embed.NewEmbedder(ctx, embed.ConfigFromModel(cfg.Embedding, cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	if cfg.Cache.Enabled {
		vectors := cache.NewLayeredCache[[]float32](cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		embedder = embed.NewCachedEmbedder(embedder, vectors, logger)
	}

	j := judge.New(provider, cfg.Verify.NeutralScore, logger)
	lanes := verify.NewLanes(cfg.Pacing, cfg.Verify.Concurrency)
	return verify.New(j, embedder, cfg.Verify, lanes, logger), nil
}

// loadCatalog lists the configured catalog
func loadCatalog(ctx context.Context, cfg *model.Config, logger *slog.Logger) ([]model.CatalogEntry, error) {
	proxy := util.ProxyConfig{
		HTTPProxy:  cfg.LLM.HTTPProxy,
		HTTPSProxy: cfg.LLM.HTTPSProxy,
		NoProxy:    cfg.LLM.NoProxy,
	}
	source, err := catalog.New(cfg.Catalog, proxy, logger)
	if err != nil {
		return nil, err
	}
	if closer, ok := source.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	return catalog.Load(ctx, source, cfg.Catalog, logger)
}
