package ratelimiter

import (
	"fmt"
	"sync"
	"time"
)

// Config is a token bucket: Capacity tokens at most, RefillRate tokens added
// every RefillInterval. A zero Capacity disables limiting.
type Config struct {
	Capacity       int           `env:"RATE_LIMIT_CAPACITY" envDefault:"0"`
	RefillRate     int           `env:"RATE_LIMIT_REFILL_RATE" envDefault:"10"`
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" envDefault:"1s"`
}

// Enabled reports whether the configuration limits anything.
func (c Config) Enabled() bool {
	return c.Capacity > 0
}

func (c Config) validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	case c.RefillRate <= 0:
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	case c.RefillInterval <= 0:
		return fmt.Errorf("%w: refill interval must be positive, got %v", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}

// Result is the bucket state after a request.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Allowed reports whether the request fit in the bucket.
func (r Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is zero for allowed requests.
func (r Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(r.ResetAt.Sub(now), 0)
}

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastSeen   time.Time
}

// staleAfter is how long an idle bucket is kept.
const staleAfter = time.Hour

// Limiter keeps one in-memory token bucket per key.
type Limiter struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
	sweeps  int
}

func New(cfg Config) (*Limiter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Limiter{cfg: cfg, now: time.Now, buckets: make(map[string]*bucket)}, nil
}

func (l *Limiter) Allow(key string) Result {
	res, _ := l.AllowN(key, 1)
	return res
}

// AllowN takes n tokens from the bucket of key. A denied request still
// drains the bucket, so clients that keep retrying stay throttled.
func (l *Limiter) AllowN(key string, n int) (Result, error) {
	if n <= 0 {
		return Result{}, fmt.Errorf("%w: must be positive, got %d", ErrInvalidTokenCount, n)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.cfg.Capacity, lastRefill: now}
		l.buckets[key] = b
	}

	// capped so a long idle period cannot overflow
	intervals := min(int64(now.Sub(b.lastRefill)/l.cfg.RefillInterval), int64(l.cfg.Capacity/l.cfg.RefillRate+1))
	if intervals > 0 {
		b.tokens = min(b.tokens+int(intervals)*l.cfg.RefillRate, l.cfg.Capacity)
		b.lastRefill = now
	}
	b.tokens -= n
	b.lastSeen = now

	l.sweepLocked(now)

	return Result{
		Limit:     l.cfg.Capacity,
		Remaining: b.tokens,
		ResetAt:   b.lastRefill.Add(l.cfg.RefillInterval),
	}, nil
}

// sweepLocked drops idle buckets every 1024 calls.
func (l *Limiter) sweepLocked(now time.Time) {
	l.sweeps++
	if l.sweeps < 1024 {
		return
	}
	l.sweeps = 0
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > staleAfter {
			delete(l.buckets, key)
		}
	}
}

// Reset forgets the bucket of key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}
