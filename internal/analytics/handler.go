package analytics

import "context"

// NewLinkCreatedHandler returns an event handler that persists created
// events to the store.
func NewLinkCreatedHandler(store Store) func(ctx context.Context, event *LinkCreatedEvent) error {
	return func(ctx context.Context, event *LinkCreatedEvent) error {
		return store.SaveLinkCreated(ctx, event)
	}
}

// NewClickHandler returns an event handler that persists click events to
// the store.
func NewClickHandler(store Store) func(ctx context.Context, event *ClickEvent) error {
	return func(ctx context.Context, event *ClickEvent) error {
		return store.SaveClick(ctx, event)
	}
}
