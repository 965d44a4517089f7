package billing

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrymomot/subscriptions/pkg/logger"
	"github.com/dmitrymomot/subscriptions/pkg/requestid"
)

// RouterOptions carries the pieces Router mounts. Handlers is required.
type RouterOptions struct {
	Handlers *Handlers
	Config   Config
	Logger   *slog.Logger

	// CheckoutLimit wraps the checkout endpoint, usually a rate limiter.
	CheckoutLimit func(http.Handler) http.Handler
	// Readiness serves /health/ready. Defaults to always ready.
	Readiness http.Handler
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

func Router(opts RouterOptions) chi.Router {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		middleware.Recoverer,
		requestLogger(log),
		cors.Handler(cors.Options{
			AllowedOrigins: opts.Config.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", requestid.Header},
			ExposedHeaders: []string{requestid.Header, "Retry-After"},
			MaxAge:         300,
		}),
	)

	h := opts.Handlers
	r.Route("/api", func(api chi.Router) {
		api.Get("/ping", h.Ping())

		checkout := http.Handler(h.CreateCheckoutSession())
		if opts.CheckoutLimit != nil {
			checkout = opts.CheckoutLimit(checkout)
		}
		api.Method(http.MethodPost, "/create-checkout-session", checkout)

		status := h.SubscriptionStatus(chi.URLParam)
		api.Get("/subscription-status/{email}", status)
		api.Get("/subscription-status/", status)

		api.Post("/webhook", h.Webhook())
	})

	r.Get("/health/live", healthLive)
	if opts.Readiness != nil {
		r.Method(http.MethodGet, "/health/ready", opts.Readiness)
	} else {
		r.Get("/health/ready", healthLive)
	}
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	return r
}

func healthLive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ALIVE"))
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.InfoContext(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				logger.Duration(time.Since(start)),
			)
		})
	}
}
