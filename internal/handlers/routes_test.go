package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/httpsdevi/linksnap/internal/handlers"
	"github.com/httpsdevi/linksnap/internal/store"
)

func setupAPI(t *testing.T) *chi.Mux {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("LinkSnap", "1.0.0"))

	handlers.RegisterRoutes(api, newTestHandler(store.NewMemoryStore()))

	return router
}

func postShorten(t *testing.T, router *chi.Mux, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/urls", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestRoutes(t *testing.T) {
	t.Run("shorten redirect stats over http", func(t *testing.T) {
		router := setupAPI(t)

		created := postShorten(t, router, `{"url": "https://example.com/page"}`)
		require.Equal(t, http.StatusCreated, created.Code)

		var body struct {
			Alias        string `json:"alias"`
			ShortenedURL string `json:"shortenedUrl"`
		}
		require.NoError(t, json.Unmarshal(created.Body.Bytes(), &body))
		assert.NotEmpty(t, body.Alias)
		assert.True(t, strings.HasSuffix(body.ShortenedURL, "/"+body.Alias))

		redirect := httptest.NewRecorder()
		router.ServeHTTP(redirect, httptest.NewRequest(http.MethodGet, "/"+body.Alias, nil))

		assert.Equal(t, http.StatusFound, redirect.Code)
		assert.Equal(t, "https://example.com/page", redirect.Header().Get("Location"))

		stats := httptest.NewRecorder()
		router.ServeHTTP(stats, httptest.NewRequest(http.MethodGet, "/api/urls/"+body.Alias+"/stats", nil))

		require.Equal(t, http.StatusOK, stats.Code)

		var statsBody struct {
			ClickCount int64 `json:"clickCount"`
		}
		require.NoError(t, json.Unmarshal(stats.Body.Bytes(), &statsBody))
		assert.Equal(t, int64(1), statsBody.ClickCount)
	})

	t.Run("custom alias conflict over http", func(t *testing.T) {
		router := setupAPI(t)

		first := postShorten(t, router, `{"url": "https://example.com/a", "alias": "my-link"}`)
		require.Equal(t, http.StatusCreated, first.Code)

		second := postShorten(t, router, `{"url": "https://example.com/b", "alias": "my-link"}`)
		assert.Equal(t, http.StatusConflict, second.Code)
	})

	t.Run("invalid url over http", func(t *testing.T) {
		router := setupAPI(t)

		resp := postShorten(t, router, `{"url": "not-a-url"}`)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("unknown alias over http", func(t *testing.T) {
		router := setupAPI(t)

		redirect := httptest.NewRecorder()
		router.ServeHTTP(redirect, httptest.NewRequest(http.MethodGet, "/doesnotexist", nil))
		assert.Equal(t, http.StatusNotFound, redirect.Code)

		stats := httptest.NewRecorder()
		router.ServeHTTP(stats, httptest.NewRequest(http.MethodGet, "/api/urls/doesnotexist/stats", nil))
		assert.Equal(t, http.StatusNotFound, stats.Code)
	})
}
