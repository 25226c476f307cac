package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/logging"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/metrics"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/stats"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/store"
)

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	Port  int
	Token string // empty disables authentication

	Logger  *logging.Logger
	Metrics *metrics.Metrics

	BootstrapIterations int
	BootstrapWorkers    int
}

type Server struct {
	store     store.Store
	port      int
	token     string
	router    *chi.Mux
	startTime time.Time
	logger    *logging.Logger
	metrics   *metrics.Metrics

	bootstrapIterations int
	bootstrapWorkers    int
}

func New(s store.Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.BootstrapIterations == 0 {
		opts.BootstrapIterations = stats.DefaultBootstrapIterations
	}

	srv := &Server{
		store:               s,
		port:                opts.Port,
		token:               opts.Token,
		router:              chi.NewRouter(),
		startTime:           time.Now(),
		logger:              opts.Logger.Named("server"),
		metrics:             opts.Metrics,
		bootstrapIterations: opts.BootstrapIterations,
		bootstrapWorkers:    opts.BootstrapWorkers,
	}

	srv.setupRoutes()
	return srv
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.instrument)

	// Public endpoints
	s.router.Get("/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	// Computation and experiment API (protected when a token is set)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.apiAuth)
		r.Post("/proportion", s.handleProportion)
		r.Post("/mean", s.handleMean)
		r.Post("/power", s.handlePower)
		r.Post("/bootstrap", s.handleBootstrap)
		r.Get("/experiments", s.handleListExperiments)
		r.Get("/experiments/{name}/analysis", s.handleExperimentAnalysis)
	})

	// HTML reports (protected, cookie-based)
	s.router.Group(func(r chi.Router) {
		r.Use(s.dashboardAuth)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/dashboard/{name}", s.handleDashboardExperiment)
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.Int("port", s.port), zap.Bool("auth", s.token != ""))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

func (s *Server) Token() string {
	return s.token
}

func (s *Server) StartTime() time.Time {
	return s.startTime
}

func (s *Server) Handler() http.Handler {
	return s.router
}
