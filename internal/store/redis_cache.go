package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/httpsdevi/linksnap/internal/link"
)

// URLLookup resolves an alias to its original URL. The redirect path only
// needs the destination, which is immutable and therefore safe to cache;
// full Link reads (stats) always go to the durable store.
type URLLookup interface {
	LookupURL(ctx context.Context, alias link.Alias) (string, error)
}

// RepositoryLookup adapts a link.Repository to URLLookup for deployments
// without a cache.
type RepositoryLookup struct {
	repo link.Repository
}

// NewRepositoryLookup creates an uncached URL lookup.
func NewRepositoryLookup(repo link.Repository) *RepositoryLookup {
	return &RepositoryLookup{repo: repo}
}

func (r *RepositoryLookup) LookupURL(ctx context.Context, alias link.Alias) (string, error) {
	l, err := r.repo.GetByAlias(ctx, alias)
	if err != nil {
		return "", err
	}

	return l.OriginalURL, nil
}

// RedisCacheStore wraps a link.Repository with a Redis read-through cache
// for the redirect hot path. Only alias -> original URL is cached: the
// mapping is immutable, so entries never need invalidation, only expiry.
type RedisCacheStore struct {
	store  link.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCacheStore creates a Redis-cached repository decorator.
func NewRedisCacheStore(store link.Repository, client *redis.Client, ttl time.Duration) *RedisCacheStore {
	return &RedisCacheStore{
		store:  store,
		client: client,
		prefix: "link:",
		ttl:    ttl,
	}
}

// Create stores the link durably, then primes the cache. The cache write
// is best-effort: a failed prime only costs a later cache miss.
func (r *RedisCacheStore) Create(ctx context.Context, l *link.Link) error {
	if err := r.store.Create(ctx, l); err != nil {
		return err
	}

	r.cacheURL(ctx, l.Alias, l.OriginalURL)

	return nil
}

// GetByAlias always reads the durable store: ClickCount and LastClickedAt
// must reflect every completed increment.
func (r *RedisCacheStore) GetByAlias(ctx context.Context, alias link.Alias) (*link.Link, error) {
	return r.store.GetByAlias(ctx, alias)
}

func (r *RedisCacheStore) IncrementClick(ctx context.Context, alias link.Alias, at time.Time) (*link.Link, error) {
	return r.store.IncrementClick(ctx, alias, at)
}

// LookupURL resolves an alias for redirection, cache first.
func (r *RedisCacheStore) LookupURL(ctx context.Context, alias link.Alias) (string, error) {
	// Any cache failure (miss or Redis outage) falls through to the
	// durable store; redirects never depend on the cache being up.
	url, err := r.client.Get(ctx, r.prefix+string(alias)).Result()
	if err == nil {
		return url, nil
	}

	l, err := r.store.GetByAlias(ctx, alias)
	if err != nil {
		return "", err
	}

	r.cacheURL(ctx, l.Alias, l.OriginalURL)

	return l.OriginalURL, nil
}

func (r *RedisCacheStore) cacheURL(ctx context.Context, alias link.Alias, url string) {
	_ = r.client.Set(ctx, r.prefix+string(alias), url, r.ttl).Err()
}

// Compile-time checks.
var (
	_ link.Repository = (*RedisCacheStore)(nil)
	_ URLLookup       = (*RedisCacheStore)(nil)
	_ URLLookup       = (*RepositoryLookup)(nil)
)
