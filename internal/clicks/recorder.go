// Package clicks records click events for resolved links. The counter bump
// on the link record is the authoritative part; the published event only
// carries enrichment data and is best-effort.
package clicks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/httpsdevi/linksnap/internal/analytics"
	"github.com/httpsdevi/linksnap/internal/link"
	"github.com/httpsdevi/linksnap/internal/messaging"
)

// Recorder records a click against an alias.
type Recorder interface {
	Record(ctx context.Context, alias link.Alias) error
}

// StoreRecorder bumps the click counter atomically in the link store and
// publishes a ClickEvent for downstream analytics.
type StoreRecorder struct {
	repo    link.Repository
	publish messaging.Publish[analytics.ClickEvent]
	logger  *zap.Logger
}

// NewStoreRecorder creates a recorder backed by the given repository.
func NewStoreRecorder(
	repo link.Repository,
	publish messaging.Publish[analytics.ClickEvent],
	logger *zap.Logger,
) *StoreRecorder {
	return &StoreRecorder{
		repo:    repo,
		publish: publish,
		logger:  logger,
	}
}

// Record increments the click counter and stamps LastClickedAt in a single
// atomic store operation, then publishes the enrichment event. A publish
// failure is logged and swallowed; the counter update is the only part
// that can fail the record.
func (r *StoreRecorder) Record(ctx context.Context, alias link.Alias) error {
	now := time.Now().UTC()

	if _, err := r.repo.IncrementClick(ctx, alias, now); err != nil {
		return err
	}

	meta := analytics.RequestMetaFromContext(ctx)
	event := &analytics.ClickEvent{
		ID:        uuid.NewString(),
		Alias:     string(alias),
		ClickedAt: now,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}

	if err := r.publish(event); err != nil {
		r.logger.Warn("failed to publish click event",
			zap.String("alias", string(alias)),
			zap.Error(err),
		)
	}

	return nil
}

// Compile-time check.
var _ Recorder = (*StoreRecorder)(nil)
