// Package ratelimit implements a fixed-window per-client request limiter.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const window = time.Minute

// Config tunes a Limiter. Zero fields take the DefaultConfig value.
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
	StaleAfter        time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
		StaleAfter:        10 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = def.RequestsPerMinute
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = def.CleanupInterval
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = def.StaleAfter
	}
	return c
}

// bucket counts the requests of one client in its current window.
type bucket struct {
	start time.Time
	seen  time.Time
	count int
}

type Limiter struct {
	cfg      Config
	now      func() time.Time
	rejected atomic.Int64

	mu      sync.Mutex
	buckets map[string]*bucket

	done     chan struct{}
	stopOnce sync.Once
}

// NewLimiter starts a limiter along with the goroutine that forgets idle
// clients. Stop releases it.
func NewLimiter(cfg Config) *Limiter {
	l := &Limiter{
		cfg:     cfg.withDefaults(),
		now:     time.Now,
		buckets: make(map[string]*bucket),
		done:    make(chan struct{}),
	}
	go l.sweepLoop()
	return l
}

// Allow records a request from key and reports whether it fits in the
// client's current one-minute window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b := l.buckets[key]
	if b == nil || now.Sub(b.start) >= window {
		l.buckets[key] = &bucket{start: now, seen: now, count: 1}
		return true
	}
	b.seen = now
	b.count++
	if b.count <= l.cfg.RequestsPerMinute {
		return true
	}
	l.rejected.Add(1)
	return false
}

// RetryAfter is the time left in key's window.
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	b := l.buckets[key]
	if b == nil {
		return 0
	}
	return max(window-l.now().Sub(b.start), 0)
}

func (l *Limiter) sweepLoop() {
	ticker := time.NewTicker(l.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// sweep drops clients idle for longer than StaleAfter.
func (l *Limiter) sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.cfg.StaleAfter)
	n := 0
	for key, b := range l.buckets {
		if b.seen.Before(cutoff) {
			delete(l.buckets, key)
			n++
		}
	}
	return n
}

func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Rejected returns how many requests were refused so far.
func (l *Limiter) Rejected() int64 {
	return l.rejected.Load()
}

// Stop ends the sweeping goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Middleware keys requests with extractKey and hands those over the limit to
// onLimit, or answers a plain 429 when onLimit is nil. Retry-After is always
// set, in whole seconds.
func (l *Limiter) Middleware(extractKey func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	if onLimit == nil {
		onLimit = func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := extractKey(r)
			if l.Allow(key) {
				next.ServeHTTP(w, r)
				return
			}
			wait := (l.RetryAfter(key) + time.Second - 1) / time.Second
			w.Header().Set("Retry-After", strconv.Itoa(max(int(wait), 1)))
			onLimit(w, r)
		})
	}
}
