package ratelimiter

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/subscriptions/pkg/logger"
)

// KeyFunc extracts the rate limit key from a request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// ByClientIP keys on the client address. Proxy headers are consulted in
// order: CF-Connecting-IP, X-Forwarded-For (first valid entry), X-Real-IP,
// then RemoteAddr.
func ByClientIP() KeyFunc {
	return ClientIP
}

// ClientIP returns the normalized client address or "".
func ClientIP(r *http.Request) string {
	if ip := parseIP(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for part := range strings.SplitSeq(fwd, ",") {
			if ip := parseIP(part); ip != "" {
				return ip
			}
		}
	}
	if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}

// Middleware rejects requests over the limit with 429 and a JSON error body.
func Middleware(l *Limiter, key KeyFunc, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Discard()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := l.Allow(r.Context(), k)
			if err != nil {
				log.WarnContext(r.Context(), "rate limit check failed, allowing request",
					logger.Component("ratelimiter"),
					logger.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				h.Set("Retry-After", strconv.Itoa(max(int(res.RetryAfter().Seconds()), 1)))
				h.Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
