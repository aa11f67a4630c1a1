// Package redis connects to the Redis server backing the page style store.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//	styles := store.NewRedis(client, "templatestyles:")
//
// Connect retries until the server answers a PING. Healthcheck returns a
// check suitable for readiness endpoints. Errors wrap the go-redis error
// with a sentinel via errors.Join.
package redis
