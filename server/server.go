package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	metricsprom "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"
	"go.uber.org/zap"

	"github.com/malusev998/money"
	"github.com/malusev998/money/services"
)

type (
	// Converter is the part of services.Converter the HTTP API needs.
	Converter interface {
		money.Converter
		Snapshot() (money.RateSnapshot, bool)
		Refresh(ctx context.Context) error
		State() services.State
	}

	Config struct {
		Converter Converter
		Registry  *money.Registry
		Logger    *zap.Logger
		// Metrics is where HTTP metrics are registered and served from.
		// The prometheus default registry is used when nil.
		Metrics *prometheus.Registry
	}

	Server struct {
		router     *mux.Router
		converter  Converter
		registry   *money.Registry
		log        *zap.Logger
		validate   *validator.Validate
		mu         sync.Mutex
		httpServer *http.Server
	}
)

func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	if cfg.Registry == nil {
		cfg.Registry = money.NewRegistry(nil)
	}

	server := &Server{
		router:    mux.NewRouter(),
		converter: cfg.Converter,
		registry:  cfg.Registry,
		log:       cfg.Logger.Named("http"),
		validate:  validator.New(),
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)

	if cfg.Metrics != nil {
		registerer, gatherer = cfg.Metrics, cfg.Metrics
	}

	mw := middleware.New(middleware.Config{
		Recorder: metricsprom.NewRecorder(metricsprom.Config{Registry: registerer}),
	})

	server.router.Use(
		loggingMiddleware(server.log),
		recovery(server.log),
		func(next http.Handler) http.Handler {
			return std.Handler("", mw, next)
		},
	)

	server.registerRoutes(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return server
}

func (s *Server) registerRoutes(metrics http.Handler) {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/convert", s.Convert).Methods(http.MethodPost)
	api.HandleFunc("/distribute", s.Distribute).Methods(http.MethodPost)
	api.HandleFunc("/rates", s.Rates).Methods(http.MethodGet)
	api.HandleFunc("/currencies/{code}", s.Currency).Methods(http.MethodGet)

	s.router.Handle("/metrics", metrics).Methods(http.MethodGet)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       9 * time.Second,
		WriteTimeout:      12 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 6 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	return srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	if err := srv.Shutdown(ctx); err != nil {
		s.log.Error("failed to shutdown HTTP server", zap.Error(err))
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	return nil
}
