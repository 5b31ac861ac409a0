package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/httpsdevi/linksnap/internal/analytics"
)

// Noop is an analytics.Store that only logs events. Used when the
// consumer runs without a Postgres connection.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveLinkCreated(_ context.Context, event *analytics.LinkCreatedEvent) error {
	n.logger.Info("link created event received",
		zap.String("alias", event.Alias),
		zap.String("originalUrl", event.OriginalURL),
		zap.Bool("customAlias", event.CustomAlias),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (n *Noop) SaveClick(_ context.Context, event *analytics.ClickEvent) error {
	n.logger.Info("click event received",
		zap.String("alias", event.Alias),
		zap.Time("clickedAt", event.ClickedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

// Compile-time check.
var _ analytics.Store = (*Noop)(nil)
