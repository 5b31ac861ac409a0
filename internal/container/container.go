// Package container wires the application together with samber/do. Each
// XxxPackage function registers one concern; binaries pick the packages
// they need.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/httpsdevi/linksnap/internal/alias"
	"github.com/httpsdevi/linksnap/internal/analytics"
	analyticsstore "github.com/httpsdevi/linksnap/internal/analytics/store"
	"github.com/httpsdevi/linksnap/internal/clicks"
	"github.com/httpsdevi/linksnap/internal/handlers"
	"github.com/httpsdevi/linksnap/internal/health"
	"github.com/httpsdevi/linksnap/internal/link"
	"github.com/httpsdevi/linksnap/internal/messaging"
	"github.com/httpsdevi/linksnap/internal/middleware"
	"github.com/httpsdevi/linksnap/internal/ratelimit"
	"github.com/httpsdevi/linksnap/internal/shortener"
	"github.com/httpsdevi/linksnap/internal/store"
)

// Options holds the server configuration, populated by humacli from flags
// and environment variables.
type Options struct {
	Port          int    `default:"8888"    help:"Port to listen on"                                                    short:"p"`
	BaseURL       string `default:""        help:"Public base URL for shortened links; defaults to http://localhost:<port>"`
	AliasLength   int    `default:"7"       help:"Length of generated aliases"                                          short:"l"`
	AliasAttempts int    `default:"5"       help:"Random alias attempts before giving up"`
	PostgresURL   string `default:""        help:"Postgres connection string; empty runs on the in-memory store"`
	RedisAddr     string `default:""        help:"Redis address; empty disables cache, analytics events, and shared rate limits" short:"r"`
	CacheTTL      int    `default:"86400"   help:"Redirect cache TTL in seconds"`
	StoreTimeout  int    `default:"3"       help:"Persistence call timeout in seconds"`
	LogFormat     string `default:"console" help:"Log format: console or json"`
}

func (o *Options) baseURL() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}

// LoggerPackage registers the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage registers the Redis client. Invoked only by packages that
// actually need Redis, so memory-only deployments never dial it.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// PostgresPackage registers the pgx connection pool and bootstraps the
// links schema.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		pool, err := pgxpool.New(context.Background(), options.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}

		return pool, nil
	})
}

// RepositoryPackage registers the link repository and the redirect URL
// lookup: Postgres when configured, memory otherwise, with a Redis
// read-through cache in front when Redis is available.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (link.Repository, error) {
		options := do.MustInvoke[*Options](i)

		var repo link.Repository

		if options.PostgresURL != "" {
			pool := do.MustInvoke[*pgxpool.Pool](i)
			pg := store.NewPostgresStore(pool, time.Duration(options.StoreTimeout)*time.Second)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := pg.EnsureSchema(ctx); err != nil {
				return nil, fmt.Errorf("ensure links schema: %w", err)
			}

			repo = pg
		} else {
			repo = store.NewMemoryStore()
		}

		if options.RedisAddr != "" {
			client := do.MustInvoke[*redis.Client](i)
			ttl := time.Duration(options.CacheTTL) * time.Second

			return store.NewRedisCacheStore(repo, client, ttl), nil
		}

		return repo, nil
	})

	do.Provide(injector, func(i *do.Injector) (store.URLLookup, error) {
		repo := do.MustInvoke[link.Repository](i)

		if cached, ok := repo.(store.URLLookup); ok {
			return cached, nil
		}

		return store.NewRepositoryLookup(repo), nil
	})
}

// PublisherGroupPackage registers the analytics event publisher and the
// typed publish functions derived from it. Without Redis, events go to an
// in-process pub/sub with no subscribers, which keeps publishing valid
// and free of external dependencies.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if options.RedisAddr == "" {
			pubsub := gochannel.NewGoChannel(gochannel.Config{}, messaging.NewZapLoggerAdapter(logger))

			return messaging.NewPublisherGroup(pubsub), nil
		}

		client := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: client,
		}, messaging.NewZapLoggerAdapter(logger))
		if err != nil {
			return nil, fmt.Errorf("create redis stream publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.LinkCreatedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.LinkCreatedEvent](group.Publisher(), analytics.TopicLinkCreated), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.ClickEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.ClickEvent](group.Publisher(), analytics.TopicLinkClicked), nil
	})
}

// ShortenerPackage registers the alias generator, click recorder, and the
// shortener service.
func ShortenerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*alias.Generator, error) {
		options := do.MustInvoke[*Options](i)

		return alias.NewGenerator(options.AliasLength)
	})

	do.Provide(injector, func(i *do.Injector) (clicks.Recorder, error) {
		repo := do.MustInvoke[link.Repository](i)
		publish := do.MustInvoke[messaging.Publish[analytics.ClickEvent]](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return clicks.NewStoreRecorder(repo, publish, logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		options := do.MustInvoke[*Options](i)

		return shortener.NewService(
			do.MustInvoke[link.Repository](i),
			do.MustInvoke[store.URLLookup](i),
			do.MustInvoke[*alias.Generator](i),
			do.MustInvoke[clicks.Recorder](i),
			options.AliasAttempts,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// RateLimitPackage registers the rate limiter: Redis-backed when Redis is
// configured (shared across replicas), in-memory otherwise.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ratelimit.Limiter, error) {
		options := do.MustInvoke[*Options](i)

		if options.RedisAddr != "" {
			client := do.MustInvoke[*redis.Client](i)

			return ratelimit.NewLimiter(store.NewRateLimitRedisStore(client)), nil
		}

		return ratelimit.NewLimiter(store.NewRateLimitMemoryStore()), nil
	})
}

// HTTPPackage registers the router and the huma API with all routes and
// middleware.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		api := humachi.New(router, huma.DefaultConfig("LinkSnap", "1.0.0"))

		defaultLimits := []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 120},
		}

		api.UseMiddleware(
			middleware.RequestMeta(api),
			middleware.RateLimiter(api, do.MustInvoke[*ratelimit.Limiter](i), defaultLimits, logger),
		)

		linkHandler := handlers.NewLinkHandler(
			do.MustInvoke[*shortener.Service](i),
			options.baseURL(),
			do.MustInvoke[messaging.Publish[analytics.LinkCreatedEvent]](i),
			logger,
		)

		handlers.RegisterRoutes(api, linkHandler)
		health.RegisterRoutes(api, healthHandler(i, options))

		return api, nil
	})
}

func healthHandler(i *do.Injector, options *Options) *health.Handler {
	var postgres, redisCheck health.Checker

	if options.PostgresURL != "" {
		postgres = health.NewPostgresChecker(do.MustInvoke[*pgxpool.Pool](i))
	}

	if options.RedisAddr != "" {
		redisCheck = health.NewRedisChecker(do.MustInvoke[*redis.Client](i))
	}

	return health.NewHandler(postgres, redisCheck)
}

// ConsumerGroupPackage registers the analytics consumer group for the
// consumer binary: a Redis stream subscriber feeding typed consumers that
// persist events.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if options.PostgresURL == "" {
			return analyticsstore.NewNoop(logger), nil
		}

		pool := do.MustInvoke[*pgxpool.Pool](i)
		pg := analyticsstore.NewPostgres(pool)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure analytics schema: %w", err)
		}

		return pg, nil
	})

	do.Provide(injector, func(i *do.Injector) (message.Subscriber, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		client := do.MustInvoke[*redis.Client](i)

		return redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client,
			ConsumerGroup: "linksnap-analytics",
		}, messaging.NewZapLoggerAdapter(logger))
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		subscriber := do.MustInvoke[message.Subscriber](i)
		analyticsStore := do.MustInvoke[analytics.Store](i)

		group := messaging.NewConsumerGroup(subscriber, logger)

		group.Add(messaging.NewConsumer(
			subscriber,
			analytics.TopicLinkCreated,
			analytics.NewLinkCreatedHandler(analyticsStore),
			logger,
		))
		group.Add(messaging.NewConsumer(
			subscriber,
			analytics.TopicLinkClicked,
			analytics.NewClickHandler(analyticsStore),
			logger,
		))

		return group, nil
	})
}
