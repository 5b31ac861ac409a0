// Package shortener implements the core shortening operations: creating
// links, resolving aliases for redirection, and reading link stats.
package shortener

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/httpsdevi/linksnap/internal/alias"
	"github.com/httpsdevi/linksnap/internal/clicks"
	"github.com/httpsdevi/linksnap/internal/link"
	"github.com/httpsdevi/linksnap/internal/store"
)

// Generator produces random aliases. Satisfied by alias.Generator.
type Generator interface {
	Generate() link.Alias
}

// Service coordinates alias generation, the link store, and click
// recording. All alias uniqueness is enforced by the store's atomic
// Create; the service only retries random generation on conflict.
type Service struct {
	repo        link.Repository
	urls        store.URLLookup
	generator   Generator
	recorder    clicks.Recorder
	maxAttempts int
	logger      *zap.Logger
}

// NewService creates a shortener service. maxAttempts bounds the number of
// random aliases tried before giving up with link.ErrGenerationExhausted.
func NewService(
	repo link.Repository,
	urls store.URLLookup,
	generator Generator,
	recorder clicks.Recorder,
	maxAttempts int,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:        repo,
		urls:        urls,
		generator:   generator,
		recorder:    recorder,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Shorten validates the URL, picks an alias, and persists the link.
// A non-empty customAlias must pass validation and be free; otherwise a
// random alias is generated, retrying on collision up to maxAttempts.
func (s *Service) Shorten(ctx context.Context, rawURL string, customAlias link.Alias) (*link.Link, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	if customAlias != "" {
		return s.createWithAlias(ctx, rawURL, customAlias)
	}

	return s.createGenerated(ctx, rawURL)
}

func (s *Service) createWithAlias(ctx context.Context, rawURL string, a link.Alias) (*link.Link, error) {
	if err := alias.Validate(a); err != nil {
		return nil, err
	}

	l := &link.Link{
		Alias:       a,
		OriginalURL: rawURL,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

func (s *Service) createGenerated(ctx context.Context, rawURL string) (*link.Link, error) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		l := &link.Link{
			Alias:       s.generator.Generate(),
			OriginalURL: rawURL,
			CreatedAt:   time.Now().UTC(),
		}

		err := s.repo.Create(ctx, l)
		if err == nil {
			return l, nil
		}

		if !errors.Is(err, link.ErrAliasTaken) {
			return nil, err
		}

		// Collisions are rare at base62^length; a burst of them usually
		// means the alias space is too small for the table.
		s.logger.Warn("generated alias collided",
			zap.String("alias", string(l.Alias)),
			zap.Int("attempt", attempt+1),
		)
	}

	return nil, link.ErrGenerationExhausted
}

// Resolve looks up the destination for an alias and records the click.
// A failed click record is logged but never blocks the redirect.
func (s *Service) Resolve(ctx context.Context, a link.Alias) (string, error) {
	url, err := s.urls.LookupURL(ctx, a)
	if err != nil {
		return "", err
	}

	if err := s.recorder.Record(ctx, a); err != nil {
		s.logger.Error("failed to record click",
			zap.String("alias", string(a)),
			zap.Error(err),
		)
	}

	return url, nil
}

// Stats returns the full link record for an alias.
func (s *Service) Stats(ctx context.Context, a link.Alias) (*link.Link, error) {
	return s.repo.GetByAlias(ctx, a)
}
