package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/httpsdevi/linksnap/internal/analytics"
)

// Postgres is an analytics.Store backed by PostgreSQL. Events are
// append-only; aggregate counters live on the links table, not here.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new PostgreSQL-backed analytics store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the analytics tables if they do not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS link_created_events (
			id           TEXT PRIMARY KEY,
			alias        TEXT NOT NULL,
			original_url TEXT NOT NULL,
			custom_alias BOOLEAN NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL,
			client_ip    TEXT,
			user_agent   TEXT
		);
		CREATE TABLE IF NOT EXISTS link_clicks (
			id         TEXT PRIMARY KEY,
			alias      TEXT NOT NULL,
			clicked_at TIMESTAMPTZ NOT NULL,
			client_ip  TEXT,
			user_agent TEXT,
			referrer   TEXT
		);
		CREATE INDEX IF NOT EXISTS link_clicks_alias_idx ON link_clicks (alias, clicked_at)
	`

	_, err := p.pool.Exec(ctx, query)

	return err
}

func (p *Postgres) SaveLinkCreated(ctx context.Context, event *analytics.LinkCreatedEvent) error {
	query := `
		INSERT INTO link_created_events (id, alias, original_url, custom_alias, created_at, client_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query,
		event.ID,
		event.Alias,
		event.OriginalURL,
		event.CustomAlias,
		event.CreatedAt,
		event.ClientIP,
		event.UserAgent,
	)

	return err
}

func (p *Postgres) SaveClick(ctx context.Context, event *analytics.ClickEvent) error {
	query := `
		INSERT INTO link_clicks (id, alias, clicked_at, client_ip, user_agent, referrer)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query,
		event.ID,
		event.Alias,
		event.ClickedAt,
		event.ClientIP,
		event.UserAgent,
		event.Referrer,
	)

	return err
}

// Compile-time check.
var _ analytics.Store = (*Postgres)(nil)
