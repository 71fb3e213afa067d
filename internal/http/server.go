// Package http serves the analytics reports as a JSON API.
package http

import (
	"context"
	"net/http"
	"time"

	"wallet/internal/amqp"
	"wallet/internal/analytics"
	"wallet/internal/log"
	"wallet/internal/middleware/ratelimit"
	"wallet/internal/middleware/security"
	"wallet/internal/middleware/trace"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ExportPublisher queues report export requests.
type ExportPublisher interface {
	PublishExportRequest(ctx context.Context, msg *amqp.ReportExportMessage) error
}

type Options struct {
	Addr               string
	RequestTimeout     time.Duration
	RateLimitPerMinute int
}

// Dependencies wired into the server. Exports may be nil, in which case the
// export endpoint answers 503.
type Dependencies struct {
	Reports analytics.Reporter
	Store   Pinger
	Exports ExportPublisher
	Logger  *log.Logger
}

type Server struct {
	http.Server
	reports  analytics.Reporter
	store    Pinger
	exports  ExportPublisher
	logger   *log.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	timeout  time.Duration
}

func NewServer(opts Options, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		reports:  deps.Reports,
		store:    deps.Store,
		exports:  deps.Exports,
		logger:   logger,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: security.NewDetector(),
		timeout:  opts.RequestTimeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/analytics/summary", get(s.handleSummary))
	mux.HandleFunc("/api/analytics/income-by-source", get(s.handleIncomeBySource))
	mux.HandleFunc("/api/analytics/balance-by-storage", get(s.handleBalanceByStorage))
	mux.HandleFunc("/api/analytics/expense-vs-budget", get(s.handleBudgetVsActual))
	mux.HandleFunc("/api/analytics/expense-template", get(s.handleExpenseTemplate))
	mux.HandleFunc("/api/analytics/exports", s.handleCreateExport)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "not found", r.URL.Path)
	})

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      s.writeTimeout(),
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) writeTimeout() time.Duration {
	if s.timeout <= 0 {
		return 60 * time.Second
	}
	return s.timeout + 5*time.Second
}

// middleware wraps the mux, outermost first: security headers, tracing and
// access log, suspicious request logging, rate limiting, request deadline.
func (s *Server) middleware(next http.Handler) http.Handler {
	h := s.withTimeout(next)
	h = s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, s.detector.ExtractClientIP(r), log.FieldPath, r.URL.Path)
		writeError(w, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded", "")
	})(h)
	h = s.withDetection(h)
	h = trace.NewMiddleware(s.logger, s.detector.ExtractClientIP).Middleware(h)
	return security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
}

func (s *Server) withDetection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reason := s.detector.Suspicious(r); reason != "" {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request",
				"reason", reason, log.FieldClientIP, s.detector.ExtractClientIP(r), log.FieldPath, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withTimeout(next http.Handler) http.Handler {
	if s.timeout <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// get rejects anything but GET and HEAD.
func get(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(w, "GET, HEAD")
			return
		}
		h(w, r)
	}
}

// Shutdown stops accepting requests and releases the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			writeError(w, http.StatusServiceUnavailable, CodeUnavailable, "store unavailable", "")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
