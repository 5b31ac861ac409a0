package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/httpsdevi/linksnap/internal/ratelimit"
)

// RegisterRoutes registers the shortening API with per-endpoint rate
// limit configuration.
func RegisterRoutes(api huma.API, linkHandler *LinkHandler) {
	// Stricter limits for writes.
	huma.Register(api, huma.Operation{
		OperationID:   "shorten-url",
		Method:        http.MethodPost,
		Path:          "/api/urls",
		Summary:       "Create short link",
		Description:   "Shortens a URL, optionally under a user-chosen alias.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
					{Window: time.Hour, Max: 100},
					{Window: 24 * time.Hour, Max: 500},
				},
			},
		},
	}, linkHandler.Shorten)

	// Redirects are latency-critical and high-traffic; keep the limit loose.
	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{alias}",
		Summary:     "Redirect to original URL",
		Description: "Resolves an alias and redirects to its original URL, recording the click.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, linkHandler.Redirect)

	huma.Register(api, huma.Operation{
		OperationID: "link-stats",
		Method:      http.MethodGet,
		Path:        "/api/urls/{alias}/stats",
		Summary:     "Read link stats",
		Description: "Returns click count, creation time, and last click time for an alias.",
		Tags:        []string{"Links"},
	}, linkHandler.Stats)
}
