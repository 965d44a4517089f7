// Package redis connects to Redis with go-redis and exposes a readiness
// check. The rate limiter uses it to share counters between replicas.
//
//	client, err := redis.Connect(ctx, cfg, log)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
package redis
