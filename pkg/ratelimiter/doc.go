// Package ratelimiter throttles clients with in-memory token buckets.
//
//	l, err := ratelimiter.New(ratelimiter.Config{Capacity: 20, RefillRate: 10, RefillInterval: time.Second})
//	if err != nil {
//	    return err
//	}
//	r.Use(ratelimiter.Middleware(l, func(r *http.Request) string {
//	    return clientip.FromContext(r.Context())
//	}))
//
// Buckets live in process memory; every replica limits independently.
package ratelimiter
