package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/httpsdevi/linksnap/internal/link"
)

// PostgresStore is a PostgreSQL implementation of link.Repository.
//
// Alias uniqueness is enforced by the primary key on the links table, so
// Create never needs a separate existence check. Click increments are a
// single UPDATE .. RETURNING, atomic per row.
type PostgresStore struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewPostgresStore creates a new PostgreSQL-backed link store. Every call
// is bounded by the given timeout; on expiry the operation fails with
// link.ErrStoreUnavailable instead of hanging the request.
func NewPostgresStore(pool *pgxpool.Pool, timeout time.Duration) *PostgresStore {
	return &PostgresStore{pool: pool, timeout: timeout}
}

// EnsureSchema creates the links table if it does not exist.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS links (
			alias           TEXT PRIMARY KEY,
			original_url    TEXT NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL,
			click_count     BIGINT NOT NULL DEFAULT 0,
			last_clicked_at TIMESTAMPTZ
		)
	`

	_, err := p.pool.Exec(ctx, query)

	return err
}

func (p *PostgresStore) Create(ctx context.Context, l *link.Link) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := `
		INSERT INTO links (alias, original_url, created_at, click_count, last_clicked_at)
		VALUES ($1, $2, $3, 0, NULL)
		ON CONFLICT (alias) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query,
		string(l.Alias),
		l.OriginalURL,
		l.CreatedAt,
	)
	if err != nil {
		return translateErr(err)
	}

	if tag.RowsAffected() == 0 {
		return link.ErrAliasTaken
	}

	return nil
}

func (p *PostgresStore) GetByAlias(ctx context.Context, alias link.Alias) (*link.Link, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := `
		SELECT alias, original_url, created_at, click_count, last_clicked_at
		FROM links
		WHERE alias = $1
	`

	return p.scanLink(p.pool.QueryRow(ctx, query, string(alias)))
}

func (p *PostgresStore) IncrementClick(ctx context.Context, alias link.Alias, at time.Time) (*link.Link, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := `
		UPDATE links
		SET click_count = click_count + 1, last_clicked_at = $2
		WHERE alias = $1
		RETURNING alias, original_url, created_at, click_count, last_clicked_at
	`

	return p.scanLink(p.pool.QueryRow(ctx, query, string(alias), at))
}

func (p *PostgresStore) scanLink(row pgx.Row) (*link.Link, error) {
	var l link.Link

	err := row.Scan(
		&l.Alias,
		&l.OriginalURL,
		&l.CreatedAt,
		&l.ClickCount,
		&l.LastClickedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, link.ErrNotFound
		}

		return nil, translateErr(err)
	}

	return &l, nil
}

// translateErr maps timeouts and cancellation to link.ErrStoreUnavailable
// so the API layer can answer 5xx instead of leaking driver errors.
func translateErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", link.ErrStoreUnavailable, err)
	}

	return err
}

// Compile-time check.
var _ link.Repository = (*PostgresStore)(nil)
