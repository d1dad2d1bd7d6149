package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"expenso/internal/backend"
	"expenso/internal/log"
	"expenso/internal/middleware/ratelimit"
	"expenso/internal/middleware/security"
	"expenso/internal/middleware/trace"
	"expenso/internal/services"
)

const readyTimeout = 2 * time.Second

// Options tune a Server. Zero values fall back to sensible defaults.
type Options struct {
	// RoastingDefault is used by /api/insights when ?roast is absent.
	RoastingDefault bool
	RateLimitRPM    int
	BackendName     string
	Ready           backend.ReadyFunc
	Logger          *log.Logger
}

// Server wraps http.Server and owns the middleware that needs shutting down.
type Server struct {
	http.Server

	transactions    *services.TransactionService
	dashboard       *services.DashboardService
	ready           backend.ReadyFunc
	backendName     string
	roastingDefault bool
	catalogue       CatalogueDTO

	logger    *log.Logger
	events    *log.StructuredLogger
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	tracer    *trace.Middleware
	rateLimit func(http.Handler) http.Handler

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, txs *services.TransactionService, dash *services.DashboardService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		transactions:    txs,
		dashboard:       dash,
		ready:           opts.Ready,
		backendName:     opts.BackendName,
		roastingDefault: opts.RoastingDefault,
		catalogue:       buildCatalogue(),
		logger:          logger,
		events:          log.NewStructuredLogger(logger),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitRPM,
		}),
		detector: security.NewDetector(),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, logger)
	s.rateLimit = s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, s.detector.ExtractClientIP(r),
			log.FieldPath, r.URL.Path)
		TooManyRequestsError().Write(w)
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /api/transactions", s.handleListTransactions)
	api.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	api.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	api.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	api.HandleFunc("GET /api/summary", s.handleSummary)
	api.HandleFunc("GET /api/insights", s.handleInsights)
	api.HandleFunc("GET /api/dashboard", s.handleDashboard)
	api.HandleFunc("GET /api/catalogue", s.handleCatalogue)

	// Probes are not rate limited.
	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", s.handleHealth)
	root.HandleFunc("GET /readyz", s.handleReady)
	root.Handle("/api/", s.rateLimit(api))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	var h http.Handler = root
	h = headers.Middleware(h)
	h = s.detector.Middleware(h)
	h = log.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})(h)
	h = log.Middleware(s.logger)(h)
	h = s.tracer.Middleware(h)
	return h
}

// Shutdown stops the rate limiter and gracefully shuts down the HTTP server.
// It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Metrics exposes the middleware counters, mainly for diagnostics and tests.
type Metrics struct {
	Requests   trace.Metrics
	RateLimit  ratelimit.Metrics
	Suspicious int64
}

func (s *Server) Metrics() Metrics {
	return Metrics{
		Requests:   s.tracer.GetMetrics(),
		RateLimit:  s.limiter.GetMetrics(),
		Suspicious: s.detector.SuspiciousCount(),
	}
}
