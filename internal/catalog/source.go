// Package catalog lists the titles of existing content that candidates are
// checked against.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ppiankov/novelty/internal/logging"
	"github.com/ppiankov/novelty/internal/model"
	"github.com/ppiankov/novelty/internal/util"
)

// Source lists titles in a named collection, returning at most limit of them.
// Sources truncate; they do not paginate past limit.
type Source interface {
	ListTitles(ctx context.Context, collection string, limit int) ([]string, error)
}

// MemorySource serves a fixed, caller-provided list
type MemorySource struct {
	titles []string
}

// NewMemorySource creates a source over titles
func NewMemorySource(titles []string) *MemorySource {
	return &MemorySource{titles: titles}
}

// ListTitles returns the first limit titles; collection is ignored
func (s *MemorySource) ListTitles(ctx context.Context, collection string, limit int) ([]string, error) {
	return truncate(s.titles, limit), nil
}

// New creates the source selected by config. HTTP-backed sources dial
// through proxy.
func New(config model.CatalogConfig, proxy util.ProxyConfig, logger *slog.Logger) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(config.Source)) {
	case "", "file":
		if config.Path == "" {
			return nil, fmt.Errorf("catalog.path is required for the file source")
		}
		return NewFileSource(config.Path), nil
	case "qdrant":
		return NewQdrantSource(QdrantConfig{
			URL:        config.QdrantURL,
			APIKey:     config.QdrantAPIKey,
			TitleField: config.TitleColumn,
			Proxy:      proxy,
		}), nil
	case "postgres", "postgresql":
		return NewPostgresSource(config, logger)
	default:
		return nil, fmt.Errorf("unsupported catalog source: %s", config.Source)
	}
}

// Load lists the configured collection as catalog entries and logs the size
func Load(ctx context.Context, source Source, config model.CatalogConfig, logger *slog.Logger) ([]model.CatalogEntry, error) {
	titles, err := source.ListTitles(ctx, config.Collection, config.Limit)
	if err != nil {
		return nil, fmt.Errorf("list catalog titles: %w", err)
	}

	logging.OrDefault(logger).Info("catalog loaded",
		"source", config.Source,
		"collection", config.Collection,
		"entries", len(titles),
		"limit", config.Limit,
	)
	return model.EntriesFromTitles(titles), nil
}

func truncate(titles []string, limit int) []string {
	if limit > 0 && len(titles) > limit {
		return titles[:limit]
	}
	return titles
}
