package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ppiankov/novelty/internal/logging"
	"github.com/ppiankov/novelty/internal/model"
)

// PostgresSource lists titles from a table, one row per published item
type PostgresSource struct {
	db     *sql.DB
	config model.CatalogConfig
	logger *slog.Logger
}

// NewPostgresSource opens a pgx-backed connection pool. The connection is
// established lazily on the first query.
func NewPostgresSource(config model.CatalogConfig, logger *slog.Logger) (*PostgresSource, error) {
	if config.PostgresDSN == "" {
		return nil, fmt.Errorf("catalog.postgres_dsn is required for the postgres source")
	}

	db, err := sql.Open("pgx", config.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	return &PostgresSource{
		db:     db,
		config: config,
		logger: logging.OrDefault(logger),
	}, nil
}

// Close releases the connection pool
func (s *PostgresSource) Close() error {
	return s.db.Close()
}

// ListTitles selects at most limit titles, filtered by collection when both
// the collection and its column are set
func (s *PostgresSource) ListTitles(ctx context.Context, collection string, limit int) ([]string, error) {
	query, args, err := titlesQuery(s.config, collection, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	s.logger.Debug("listing catalog titles", "query", query)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title sql.NullString
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		if title.Valid && title.String != "" {
			titles = append(titles, title.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate titles: %w", err)
	}
	return titles, nil
}

func titlesQuery(config model.CatalogConfig, collection string, limit int) sq.SelectBuilder {
	titleColumn := config.TitleColumn
	if titleColumn == "" {
		titleColumn = "title"
	}

	q := sq.Select(titleColumn).
		From(config.Table).
		PlaceholderFormat(sq.Dollar)

	if collection != "" && config.CollectionColumn != "" {
		q = q.Where(sq.Eq{config.CollectionColumn: collection})
	}
	if config.OrderColumn != "" {
		q = q.OrderBy(config.OrderColumn)
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return q
}
