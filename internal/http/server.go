// Package http exposes the ledger as a small JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"kakeibo/internal/cache"
	"kakeibo/internal/core"
	applog "kakeibo/internal/log"
	"kakeibo/internal/services"
)

// Options tune the server. Zero values fall back to defaults.
type Options struct {
	SummaryCacheSize int
	SummaryCacheTTL  time.Duration
	// Writes allowed per client per minute.
	WriteLimit int
	Logger     *applog.Logger
}

// summaryKey identifies a cached dashboard. The revision makes every
// mutation invalidate older entries.
type summaryKey struct {
	revision uint64
	month    string
	method   string
	today    string
}

type Server struct {
	http.Server
	svc        *services.LedgerService
	logger     *applog.Logger
	structured *applog.StructuredLogger

	summaries   *cache.LRUCache[summaryKey, services.Dashboard]
	limiter     *rateLimiter
	janitor     *cache.Manager
	stopJanitor context.CancelFunc

	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, svc *services.LedgerService, opts Options) *Server {
	if opts.SummaryCacheSize <= 0 {
		opts.SummaryCacheSize = 128
	}
	if opts.SummaryCacheTTL <= 0 {
		opts.SummaryCacheTTL = 10 * time.Minute
	}
	if opts.WriteLimit <= 0 {
		opts.WriteLimit = 60
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	}

	s := &Server{
		svc:        svc,
		logger:     opts.Logger,
		structured: applog.NewStructuredLogger(opts.Logger),
		summaries:  cache.NewLRUCache[summaryKey, services.Dashboard](opts.SummaryCacheSize, opts.SummaryCacheTTL),
		limiter:    newRateLimiter(opts.WriteLimit, time.Minute),
	}
	s.janitor = cache.NewManager(s.summaries, s.limiter)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/records", s.handleListRecords)
	mux.HandleFunc("POST /api/records", s.handleCreateRecord)
	mux.HandleFunc("PUT /api/records", s.handleSaveView)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/months", s.handleMonths)

	var handler http.Handler = mux
	handler = s.withRequestLogging(handler)
	handler = applog.RequestIDMiddleware(handler)
	handler = applog.Middleware(s.logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// StartJanitor evicts expired cache entries in the background until
// Shutdown.
func (s *Server) StartJanitor(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopJanitor = cancel
	go s.janitor.Run(ctx, interval)
}

// Shutdown stops background work and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.stopJanitor != nil {
			s.stopJanitor()
		}
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// withRequestLogging sets security headers, rate limits writes and logs
// each request once it finished.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		setSecurityHeaders(w.Header())

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		if isWrite(r.Method) && !s.limiter.allow(clientIP) {
			rw.Header().Set("Retry-After", "60")
			writeJSON(rw, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded", Kind: "rate_limited"})
		} else {
			next.ServeHTTP(rw, r)
		}

		s.structured.LogHTTPEnd(r.Context(), r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	})
}

func isWrite(method string) bool {
	return method == http.MethodPost || method == http.MethodPut
}

// responseWriter captures the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports the loaded ledger; a store that failed to load never
// gets this far.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ready",
		"revision":      s.svc.Revision(),
		"summary_cache": s.summaries.Stats(),
	})
}

// defaultSelection is the current month across every method.
func (s *Server) defaultSelection() core.Selection {
	return s.svc.DefaultSelection()
}
