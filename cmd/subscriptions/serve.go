package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/subscriptions/modules/billing"
	"github.com/dmitrymomot/subscriptions/pkg/email"
	"github.com/dmitrymomot/subscriptions/pkg/httpserver"
	"github.com/dmitrymomot/subscriptions/pkg/ratelimiter"
	"github.com/dmitrymomot/subscriptions/pkg/redis"
	"github.com/dmitrymomot/subscriptions/pkg/subscription"
)

const readinessTimeout = 2 * time.Second

func serve(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	handler, cleanup, err := buildHandler(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, handler)
}

// buildHandler wires the store, provider, notifier and limiter into the
// billing router. cleanup releases everything that was opened.
func buildHandler(ctx context.Context, cfg appConfig, log *slog.Logger) (http.Handler, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (http.Handler, func(), error) {
		cleanup()
		return nil, func() {}, err
	}

	sh, err := openStore(ctx, cfg, log)
	if err != nil {
		return fail(fmt.Errorf("open %s store: %w", cfg.StoreDriver, err))
	}
	closers = append(closers, sh.close)
	checks := []httpserver.Check{sh.check}

	var rdb *goredis.Client
	if cfg.Redis.Enabled() {
		rdb, err = redis.Connect(ctx, cfg.Redis, log)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
		checks = append(checks, redis.Healthcheck(rdb))
	}

	limit, closeLimiter, err := newCheckoutLimiter(cfg.RateLimit, rdb, log)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closeLimiter)

	provider, err := subscription.NewProvider(cfg.Subscription)
	if err != nil {
		return fail(err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := billing.NewMetrics(reg)

	sender, err := email.New(cfg.Email, log)
	if err != nil {
		return fail(err)
	}

	svc, err := subscription.NewService(cfg.Subscription, provider, sh.store,
		subscription.WithLogger(log),
		subscription.WithNotifier(billing.NewEmailNotifier(sender, cfg.Billing.AppURL, log, metrics)),
	)
	if err != nil {
		return fail(err)
	}

	log.InfoContext(ctx, "billing wired",
		slog.String("provider", provider.Name()),
		slog.String("store", cfg.StoreDriver),
		slog.String("rate_limit_store", cfg.RateLimit.Store),
	)

	router := billing.Router(billing.RouterOptions{
		Handlers:      billing.NewHandlers(svc, cfg.Billing, log, metrics),
		Config:        cfg.Billing,
		Logger:        log,
		CheckoutLimit: limit,
		Readiness:     httpserver.Readiness(log, readinessTimeout, checks...),
		Metrics:       promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	return router, cleanup, nil
}

func newCheckoutLimiter(cfg ratelimiter.Config, rdb *goredis.Client, log *slog.Logger) (func(http.Handler) http.Handler, func(), error) {
	var (
		store   ratelimiter.Store
		closeFn = func() {}
	)
	switch cfg.Store {
	case "redis":
		if rdb == nil {
			return nil, nil, errors.New("RATE_LIMIT_STORE=redis requires REDIS_URL")
		}
		store = ratelimiter.NewRedisStore(rdb)
	case "memory", "":
		ms := ratelimiter.NewMemoryStore()
		store, closeFn = ms, ms.Close
	default:
		return nil, nil, fmt.Errorf("unsupported RATE_LIMIT_STORE %q", cfg.Store)
	}

	limiter, err := ratelimiter.New(store, cfg)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return ratelimiter.Middleware(limiter, ratelimiter.ByClientIP(), log), closeFn, nil
}
