package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time            { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(t *testing.T, perMinute int) (*Limiter, *clock) {
	t.Helper()
	rl := NewLimiter(Config{RequestsPerMinute: perMinute})
	t.Cleanup(rl.Stop)
	c := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl.now = c.now
	return rl, c
}

func TestAllowWithinWindow(t *testing.T) {
	rl, c := newTestLimiter(t, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("a") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("a") {
		t.Fatal("fourth request should be rejected")
	}
	if !rl.Allow("b") {
		t.Fatal("other clients have their own budget")
	}

	c.advance(30 * time.Second)
	if rl.Allow("a") {
		t.Fatal("window has not elapsed yet")
	}
	if got := rl.RetryAfter("a"); got != 30*time.Second {
		t.Fatalf("RetryAfter = %v", got)
	}

	c.advance(30 * time.Second)
	if !rl.Allow("a") {
		t.Fatal("new window should allow again")
	}
	if rl.Rejected() != 2 {
		t.Fatalf("Rejected = %d", rl.Rejected())
	}
}

func TestSweepForgetsIdleClients(t *testing.T) {
	rl, c := newTestLimiter(t, 10)
	rl.Allow("old")
	c.advance(11 * time.Minute)
	rl.Allow("new")

	if removed := rl.sweep(); removed != 1 {
		t.Fatalf("removed = %d", removed)
	}
	if rl.ActiveClients() != 1 {
		t.Fatalf("ActiveClients = %d", rl.ActiveClients())
	}
}

func TestDefaultsAndStopTwice(t *testing.T) {
	rl := NewLimiter(Config{})
	if rl.cfg.RequestsPerMinute != 60 || rl.cfg.CleanupInterval != 5*time.Minute {
		t.Fatalf("defaults not applied: %+v", rl.cfg)
	}
	rl.Stop()
	rl.Stop()
}

func TestMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)
	key := func(*http.Request) string { return "k" }
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	limited := 0
	h := rl.Middleware(key, func(w http.ResponseWriter, _ *http.Request) {
		limited++
		w.WriteHeader(http.StatusTooManyRequests)
	})(ok)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("first status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusTooManyRequests || limited != 1 {
		t.Fatalf("second status = %d limited = %d", rr.Code, limited)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Fatalf("Retry-After = %q", rr.Header().Get("Retry-After"))
	}

	plain := rl.Middleware(key, nil)(ok)
	rr = httptest.NewRecorder()
	plain.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("default handler status = %d", rr.Code)
	}
}
