package ratelimiter

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestLimiter(t *testing.T, cfg Config) (*Limiter, *clock) {
	t.Helper()
	l, err := New(cfg)
	require.NoError(t, err)
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	l.now = c.now
	return l, c
}

func TestNew_InvalidConfig(t *testing.T) {
	for _, cfg := range []Config{
		{Capacity: 0, RefillRate: 1, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 0, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 1},
	} {
		_, err := New(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	}
	assert.False(t, Config{}.Enabled())
}

func TestLimiter_AllowAndRefill(t *testing.T) {
	l, c := newTestLimiter(t, Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Second})

	assert.True(t, l.Allow("a").Allowed())
	assert.True(t, l.Allow("a").Allowed())
	denied := l.Allow("a")
	assert.False(t, denied.Allowed())
	assert.Equal(t, time.Second, denied.RetryAfter(c.t))

	assert.True(t, l.Allow("b").Allowed(), "keys are independent")

	c.t = c.t.Add(time.Hour)
	res := l.Allow("a")
	assert.True(t, res.Allowed())
	assert.Equal(t, 1, res.Remaining, "refill is capped at capacity")

	l.Reset("a")
	assert.Equal(t, 1, l.Allow("a").Remaining)

	_, err := l.AllowN("a", 0)
	assert.ErrorIs(t, err, ErrInvalidTokenCount)
}

func TestMiddleware(t *testing.T) {
	l, _ := newTestLimiter(t, Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Minute})
	h := Middleware(l, func(r *http.Request) string { return r.Header.Get("X-Client") })(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }),
	)

	call := func(client string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/sanitize", nil)
		if client != "" {
			r.Header.Set("X-Client", client)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	rec := call("c1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = call("c1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, call("").Code, "empty key is not limited")
}

func TestComposite(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	fixed := func(s string) KeyFunc { return func(*http.Request) string { return s } }

	assert.Equal(t, "a:b", Composite(fixed("a"), fixed(""), fixed("b"))(r))
	assert.Empty(t, Composite(fixed(""))(r))

	long := Composite(fixed(strings.Repeat("x", 80)))(r)
	assert.NotEmpty(t, long)
	assert.LessOrEqual(t, len(long), 13)
}
