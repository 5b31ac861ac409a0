package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/httpsdevi/linksnap/internal/alias"
	"github.com/httpsdevi/linksnap/internal/analytics"
	"github.com/httpsdevi/linksnap/internal/clicks"
	"github.com/httpsdevi/linksnap/internal/handlers"
	"github.com/httpsdevi/linksnap/internal/link"
	"github.com/httpsdevi/linksnap/internal/messaging"
	"github.com/httpsdevi/linksnap/internal/shortener"
	"github.com/httpsdevi/linksnap/internal/store"
)

const (
	testURL     = "https://example.com/page"
	testBaseURL = "http://localhost:8888"
)

func noopPublish[T any]() messaging.Publish[T] {
	return func(_ *T) error { return nil }
}

func errorPublish[T any](err error) messaging.Publish[T] {
	return func(_ *T) error { return err }
}

func newTestHandler(repo link.Repository) *handlers.LinkHandler {
	gen, _ := alias.NewGenerator(7)

	svc := shortener.NewService(
		repo,
		store.NewRepositoryLookup(repo),
		gen,
		clicks.NewStoreRecorder(repo, noopPublish[analytics.ClickEvent](), zap.NewNop()),
		5,
		zap.NewNop(),
	)

	return handlers.NewLinkHandler(svc, testBaseURL, noopPublish[analytics.LinkCreatedEvent](), zap.NewNop())
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var statusErr huma.StatusError

	require.ErrorAs(t, err, &statusErr)

	return statusErr.GetStatus()
}

func TestShorten(t *testing.T) {
	t.Run("creates link with generated alias", func(t *testing.T) {
		handler := newTestHandler(store.NewMemoryStore())

		req := &handlers.ShortenRequest{}
		req.Body.URL = testURL

		resp, err := handler.Shorten(context.Background(), req)

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Body.Alias)
		assert.Equal(t, testBaseURL+"/"+resp.Body.Alias, resp.Body.ShortenedURL)
		assert.Equal(t, resp.Body.ShortenedURL, resp.Headers.Location)
		assert.False(t, resp.Body.CreatedAt.IsZero())
	})

	t.Run("creates link with custom alias", func(t *testing.T) {
		handler := newTestHandler(store.NewMemoryStore())

		req := &handlers.ShortenRequest{}
		req.Body.URL = testURL
		req.Body.Alias = "my-link"

		resp, err := handler.Shorten(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "my-link", resp.Body.Alias)
		assert.Equal(t, testBaseURL+"/my-link", resp.Body.ShortenedURL)
	})

	t.Run("rejects invalid url with 400", func(t *testing.T) {
		handler := newTestHandler(store.NewMemoryStore())

		for _, bad := range []string{"", "example.com/page", "ftp://example.com"} {
			req := &handlers.ShortenRequest{}
			req.Body.URL = bad

			resp, err := handler.Shorten(context.Background(), req)

			assert.Nil(t, resp)
			assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		}
	})

	t.Run("rejects malformed alias with 400", func(t *testing.T) {
		handler := newTestHandler(store.NewMemoryStore())

		req := &handlers.ShortenRequest{}
		req.Body.URL = testURL
		req.Body.Alias = "a!"

		resp, err := handler.Shorten(context.Background(), req)

		assert.Nil(t, resp)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("rejects occupied alias with 409", func(t *testing.T) {
		handler := newTestHandler(store.NewMemoryStore())

		req := &handlers.ShortenRequest{}
		req.Body.URL = testURL
		req.Body.Alias = "my-link"

		_, err := handler.Shorten(context.Background(), req)
		require.NoError(t, err)

		resp, err := handler.Shorten(context.Background(), req)

		assert.Nil(t, resp)
		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})

	t.Run("succeeds when event publish fails", func(t *testing.T) {
		repo := store.NewMemoryStore()
		gen, _ := alias.NewGenerator(7)
		svc := shortener.NewService(
			repo,
			store.NewRepositoryLookup(repo),
			gen,
			clicks.NewStoreRecorder(repo, noopPublish[analytics.ClickEvent](), zap.NewNop()),
			5,
			zap.NewNop(),
		)
		handler := handlers.NewLinkHandler(
			svc,
			testBaseURL,
			errorPublish[analytics.LinkCreatedEvent](errors.New("broker down")),
			zap.NewNop(),
		)

		req := &handlers.ShortenRequest{}
		req.Body.URL = testURL

		resp, err := handler.Shorten(context.Background(), req)

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Body.Alias)
	})
}

func TestRedirect(t *testing.T) {
	t.Run("redirects with 302 to original url", func(t *testing.T) {
		handler := newTestHandler(store.NewMemoryStore())

		createReq := &handlers.ShortenRequest{}
		createReq.Body.URL = testURL
		createReq.Body.Alias = "my-link"

		_, err := handler.Shorten(context.Background(), createReq)
		require.NoError(t, err)

		resp, err := handler.Redirect(context.Background(), &handlers.RedirectRequest{Alias: "my-link"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, testURL, resp.Headers.Location)
	})

	t.Run("returns 404 for unknown alias", func(t *testing.T) {
		handler := newTestHandler(store.NewMemoryStore())

		resp, err := handler.Redirect(context.Background(), &handlers.RedirectRequest{Alias: "doesnotexist"})

		assert.Nil(t, resp)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}

func TestStats(t *testing.T) {
	t.Run("returns 404 for unknown alias", func(t *testing.T) {
		handler := newTestHandler(store.NewMemoryStore())

		resp, err := handler.Stats(context.Background(), &handlers.StatsRequest{Alias: "doesnotexist"})

		assert.Nil(t, resp)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("shorten then redirect then stats round trip", func(t *testing.T) {
		handler := newTestHandler(store.NewMemoryStore())

		createReq := &handlers.ShortenRequest{}
		createReq.Body.URL = testURL

		created, err := handler.Shorten(context.Background(), createReq)
		require.NoError(t, err)

		redirect, err := handler.Redirect(context.Background(), &handlers.RedirectRequest{Alias: created.Body.Alias})
		require.NoError(t, err)
		assert.Equal(t, testURL, redirect.Headers.Location)

		stats, err := handler.Stats(context.Background(), &handlers.StatsRequest{Alias: created.Body.Alias})

		require.NoError(t, err)
		assert.Equal(t, created.Body.Alias, stats.Body.Alias)
		assert.Equal(t, int64(1), stats.Body.ClickCount)
		assert.True(t, stats.Body.CreatedAt.Equal(created.Body.CreatedAt))
		require.NotNil(t, stats.Body.LastClickedAt)
	})

	t.Run("concurrent redirects are all counted", func(t *testing.T) {
		handler := newTestHandler(store.NewMemoryStore())

		createReq := &handlers.ShortenRequest{}
		createReq.Body.URL = testURL
		createReq.Body.Alias = "my-link"

		_, err := handler.Shorten(context.Background(), createReq)
		require.NoError(t, err)

		const n = 40

		var wg sync.WaitGroup

		for i := 0; i < n; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, redirectErr := handler.Redirect(context.Background(), &handlers.RedirectRequest{Alias: "my-link"})
				assert.NoError(t, redirectErr)
			}()
		}

		wg.Wait()

		stats, err := handler.Stats(context.Background(), &handlers.StatsRequest{Alias: "my-link"})

		require.NoError(t, err)
		assert.Equal(t, int64(n), stats.Body.ClickCount)
	})
}
