package link

import (
	"context"
	"time"
)

// Alias is the short identifier that maps to an original URL.
type Alias string

// Link is the persisted record associating an alias with its original URL
// and click metadata.
type Link struct {
	Alias         Alias
	OriginalURL   string
	CreatedAt     time.Time
	ClickCount    int64
	LastClickedAt *time.Time
}

// Repository defines the storage contract for links.
//
// Create enforces alias uniqueness atomically: when two concurrent creates
// race on the same alias, exactly one succeeds and the other gets
// ErrAliasTaken. IncrementClick is an atomic increment-and-fetch that also
// stamps LastClickedAt; concurrent callers on the same alias never lose an
// update.
type Repository interface {
	Create(ctx context.Context, l *Link) error
	GetByAlias(ctx context.Context, alias Alias) (*Link, error)
	IncrementClick(ctx context.Context, alias Alias, at time.Time) (*Link, error)
}
