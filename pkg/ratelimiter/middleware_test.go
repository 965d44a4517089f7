package ratelimiter_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subscriptions/pkg/ratelimiter"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "remote addr", remote: "10.0.0.1:5555", want: "10.0.0.1"},
		{name: "remote addr without port", remote: "10.0.0.1", want: "10.0.0.1"},
		{name: "cloudflare wins", headers: map[string]string{"CF-Connecting-IP": "1.1.1.1", "X-Forwarded-For": "2.2.2.2"}, remote: "10.0.0.1:1", want: "1.1.1.1"},
		{name: "first valid forwarded", headers: map[string]string{"X-Forwarded-For": "garbage, 3.3.3.3, 4.4.4.4"}, remote: "10.0.0.1:1", want: "3.3.3.3"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "5.5.5.5"}, remote: "10.0.0.1:1", want: "5.5.5.5"},
		{name: "invalid header falls through", headers: map[string]string{"CF-Connecting-IP": "nope"}, remote: "10.0.0.1:1", want: "10.0.0.1"},
		{name: "ipv6", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "nothing usable", remote: "pipe", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ratelimiter.ClientIP(r))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	l, err := ratelimiter.New(
		ratelimiter.NewMemoryStore(ratelimiter.WithSweepInterval(0)),
		ratelimiter.Config{Requests: 1, Window: time.Minute},
	)
	require.NoError(t, err)

	h := ratelimiter.Middleware(l, ratelimiter.ByClientIP(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(remote string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	first := do("1.2.3.4:1000")
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := do("1.2.3.4:2000")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests"}`, second.Body.String())

	assert.Equal(t, http.StatusNoContent, do("5.6.7.8:1000").Code)
	assert.Equal(t, http.StatusNoContent, do("pipe").Code, "empty key is not limited")
}

func TestMiddleware_FailsOpen(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	l, err := ratelimiter.New(ratelimiter.NewRedisStore(client), ratelimiter.Config{Requests: 1, Window: time.Minute})
	require.NoError(t, err)

	h := ratelimiter.Middleware(l, ratelimiter.ByClientIP(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
