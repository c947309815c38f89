// Package redis opens the go-redis client used by the Redis delivery channel.
//
// Connect parses a redis:// URL and pings the server until it answers or the
// retry budget runs out. Healthcheck wraps a ping for the readiness probe.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// Returned errors join a sentinel from this package with the go-redis cause,
// so errors.Is works against either.
package redis
