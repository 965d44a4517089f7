// Package ratelimiter caps how often a client may hit an endpoint using
// fixed windows. Counters live in a Store: MemoryStore for a single
// instance, RedisStore when several replicas share the limit.
//
//	limiter, err := ratelimiter.New(ratelimiter.NewMemoryStore(), cfg)
//	if err != nil {
//		return err
//	}
//	r.With(ratelimiter.Middleware(limiter, ratelimiter.ByClientIP(), log)).
//		Post("/api/create-checkout-session", h)
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset on every response and Retry-After on 429.
// A failing store lets the request through.
package ratelimiter
