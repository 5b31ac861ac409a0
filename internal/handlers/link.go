package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/httpsdevi/linksnap/internal/analytics"
	"github.com/httpsdevi/linksnap/internal/link"
	"github.com/httpsdevi/linksnap/internal/messaging"
	"github.com/httpsdevi/linksnap/internal/shortener"
)

// LinkHandler exposes the shortening operations over HTTP.
type LinkHandler struct {
	service            *shortener.Service
	baseURL            string
	publishLinkCreated messaging.Publish[analytics.LinkCreatedEvent]
	logger             *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	service *shortener.Service,
	baseURL string,
	publishLinkCreated messaging.Publish[analytics.LinkCreatedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		service:            service,
		baseURL:            baseURL,
		publishLinkCreated: publishLinkCreated,
		logger:             logger,
	}
}

func (h *LinkHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	l, err := h.service.Shorten(ctx, req.Body.URL, link.Alias(req.Body.Alias))
	if err != nil {
		return nil, mapShortenError(err)
	}

	meta := analytics.RequestMetaFromContext(ctx)
	event := &analytics.LinkCreatedEvent{
		ID:          uuid.NewString(),
		Alias:       string(l.Alias),
		OriginalURL: l.OriginalURL,
		CustomAlias: req.Body.Alias != "",
		CreatedAt:   l.CreatedAt,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publishLinkCreated(event); err != nil {
		h.logger.Error("failed to publish link created event",
			zap.String("alias", event.Alias),
			zap.Error(err),
		)
	}

	shortenedURL := fmt.Sprintf("%s/%s", h.baseURL, l.Alias)

	resp := &ShortenResponse{}
	resp.Headers.Location = shortenedURL
	resp.Body.Alias = string(l.Alias)
	resp.Body.ShortenedURL = shortenedURL
	resp.Body.CreatedAt = l.CreatedAt

	return resp, nil
}

func (h *LinkHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	url, err := h.service.Resolve(ctx, link.Alias(req.Alias))
	if err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		h.logger.Error("failed to resolve alias",
			zap.String("alias", req.Alias),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to resolve link")
	}

	resp := &RedirectResponse{
		Status: http.StatusFound,
	}
	resp.Headers.Location = url

	return resp, nil
}

func (h *LinkHandler) Stats(ctx context.Context, req *StatsRequest) (*StatsResponse, error) {
	l, err := h.service.Stats(ctx, link.Alias(req.Alias))
	if err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		h.logger.Error("failed to read link stats",
			zap.String("alias", req.Alias),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to read link stats")
	}

	resp := &StatsResponse{}
	resp.Body.Alias = string(l.Alias)
	resp.Body.ClickCount = l.ClickCount
	resp.Body.CreatedAt = l.CreatedAt
	resp.Body.LastClickedAt = l.LastClickedAt

	return resp, nil
}

// mapShortenError translates domain errors to HTTP errors at the API
// boundary; everything below the handlers deals in sentinel errors only.
func mapShortenError(err error) error {
	switch {
	case errors.Is(err, link.ErrInvalidURL):
		return huma.Error400BadRequest("url must be an absolute http or https URL")
	case errors.Is(err, link.ErrAliasInvalid):
		return huma.Error400BadRequest("alias must be 3-32 characters: letters, digits, hyphen, underscore")
	case errors.Is(err, link.ErrAliasTaken):
		return huma.Error409Conflict("alias already taken")
	case errors.Is(err, link.ErrGenerationExhausted):
		return huma.Error500InternalServerError("could not allocate an alias, retry the request")
	default:
		return huma.Error500InternalServerError("failed to save link")
	}
}
