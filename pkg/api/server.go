// Package api serves datasets over HTTP.
//
//	GET /                 redirect to /api
//	GET /api              list datasets
//	GET /api/{name}/      page through a dataset, or suggest with ?q=
//	GET /healthz          liveness
//	GET /metrics          Prometheus metrics
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bastiangx/suggestd/pkg/dataset"
	"github.com/bastiangx/suggestd/pkg/resolver"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Resolver answers dataset queries.
type Resolver interface {
	Resolve(q resolver.Query) (resolver.Result, error)
}

// Lister lists the served datasets.
type Lister interface {
	List() []dataset.Info
}

// Config holds the HTTP listener settings.
type Config struct {
	Addr string
	// RateLimit is the sustained number of requests per second across all
	// clients. Zero or less disables rate limiting.
	RateLimit float64
	RateBurst int
	// ShutdownTimeout bounds graceful shutdown. Zero means 5 seconds.
	ShutdownTimeout time.Duration
}

// Server is the HTTP front end.
type Server struct {
	cfg      Config
	resolver Resolver
	lister   Lister
	limiter  *rate.Limiter
	handler  http.Handler
}

// NewServer builds the router. Nothing listens until Run is called.
func NewServer(cfg Config, res Resolver, lister Lister) *Server {
	s := &Server{
		cfg:      cfg,
		resolver: res,
		lister:   lister,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = max(1, int(cfg.RateLimit))
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.corsMiddleware)
	router.Use(s.metricsMiddleware)

	router.Get("/healthz", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(s.rateLimitMiddleware)
		r.Get("/", s.handleRoot)
		r.Get("/api", s.handleList)
		r.Get("/api/", s.handleList)
		r.Get("/api/{name}", s.handleDataset)
		r.Get("/api/{name}/", s.handleDataset)
	})
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, errors.New("no such resource"))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	})

	metricDatasets.Set(float64(len(lister.List())))
	s.handler = gzhttp.GzipHandler(router)
	return s
}

// Handler returns the root handler, with compression applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Serving HTTP on %s", s.cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		log.Debugf("Shutting down HTTP server")
		return httpServer.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
