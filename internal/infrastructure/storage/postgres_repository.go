package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"NewsBulletin/internal/domain"
	"NewsBulletin/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS bulletins (
    run_id        TEXT PRIMARY KEY,
    window_start  TIMESTAMPTZ NOT NULL,
    window_end    TIMESTAMPTZ NOT NULL,
    date_range    TEXT NOT NULL,
    article_count INTEGER NOT NULL,
    content       TEXT NOT NULL,
    generated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS bulletin_articles (
    run_id       TEXT NOT NULL REFERENCES bulletins(run_id) ON DELETE CASCADE,
    url          TEXT NOT NULL,
    title        TEXT NOT NULL,
    source       TEXT NOT NULL,
    category     TEXT NOT NULL,
    published_at TIMESTAMPTZ,
    PRIMARY KEY (run_id, url)
);
CREATE INDEX IF NOT EXISTS bulletin_articles_url_idx ON bulletin_articles (url);`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository archives bulletins and the articles they featured.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.BulletinArchive = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the archive tables when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// AlreadyFeatured returns the subset of urls that appeared in an earlier bulletin.
func (r *PostgresRepository) AlreadyFeatured(ctx context.Context, urls []string) (map[string]bool, error) {
	if r.db == nil || len(urls) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := psql.Select("DISTINCT url").
		From("bulletin_articles").
		Where(sq.Eq{"url": urls}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build featured query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query featured: %w", err)
	}

	result := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan url: %w", err)
		}
		result[url] = true
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

// SaveBulletin stores the bulletin and its articles in one transaction.
func (r *PostgresRepository) SaveBulletin(ctx context.Context, bulletin domain.Bulletin) error {
	if r.db == nil {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertBulletin := psql.Insert("bulletins").
		Columns("run_id", "window_start", "window_end", "date_range", "article_count", "content", "generated_at").
		Values(bulletin.RunID, bulletin.WindowStart, bulletin.WindowEnd, bulletin.DateRange,
			bulletin.ArticleCount, bulletin.Content, bulletin.GeneratedAt)

	if _, err := insertBulletin.RunWith(tx).ExecContext(ctx); err != nil {
		return fmt.Errorf("insert bulletin: %w", err)
	}

	if len(bulletin.Articles) > 0 {
		insertArticles := psql.Insert("bulletin_articles").
			Columns("run_id", "url", "title", "source", "category", "published_at").
			Suffix("ON CONFLICT (run_id, url) DO NOTHING")

		for _, a := range bulletin.Articles {
			var published any
			if t, ok := a.PublishedAt(); ok {
				published = t
			}
			insertArticles = insertArticles.Values(bulletin.RunID, a.URL(), a.Title(), a.Source(), a.Category().String(), published)
		}

		if _, err := insertArticles.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("insert bulletin articles: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulletin: %w", err)
	}
	return nil
}
