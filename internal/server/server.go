// Package server implements the HTTP surface of the test-auth plugin.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/id-contact/test-auth/internal/attributes"
	"github.com/id-contact/test-auth/internal/config"
	"github.com/id-contact/test-auth/internal/idjwt"
	"github.com/id-contact/test-auth/internal/logging"
	"github.com/id-contact/test-auth/internal/metrics"
)

// Server is the test-auth plugin server.
type Server struct {
	config    *config.Config
	store     *attributes.Store
	signer    *idjwt.Signer
	encrypter *idjwt.Encrypter
	metrics   *metrics.Metrics
	deliverer *Deliverer

	httpServer    *http.Server
	metricsServer *http.Server

	running bool
	mu      sync.RWMutex
	wg      sync.WaitGroup
}

// New creates a new test-auth server from a validated configuration.
func New(cfg *config.Config) (*Server, error) {
	if err := logging.Setup(cfg.Logging); err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}

	signer, err := cfg.SigningKey.Signer()
	if err != nil {
		return nil, fmt.Errorf("signing_privkey: %w", err)
	}
	encrypter, err := cfg.Encryption.Encrypter()
	if err != nil {
		return nil, fmt.Errorf("encryption_pubkey: %w", err)
	}

	m := metrics.New()

	return &Server{
		config:    cfg,
		store:     attributes.NewStore(cfg.Attributes),
		signer:    signer,
		encrypter: encrypter,
		metrics:   m,
		deliverer: NewDeliverer(m),
	}, nil
}

// Router returns the HTTP handler serving the plugin routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.metrics.Middleware)
	r.Use(requestLogger)

	r.Post("/start_authentication", s.handleStartAuthentication)
	r.Get("/confirm/{attributes}/{continuation}", s.handleConfirm)
	r.Get("/confirm/{attributes}/{continuation}/{attr_url}", s.handleConfirm)
	r.Get("/browser/{attributes}/{continuation}", s.handleBrowser)
	r.Get("/browser/{attributes}/{continuation}/{attr_url}", s.handleBrowser)
	r.Post("/session/update", s.handleSessionUpdate)
	r.Get("/health", s.handleHealth)

	return r
}

// requestLogger attaches a request-scoped logger carrying the request id.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			ctx = logging.ContextWith(ctx, "request_id", reqID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Start begins serving. It returns once the listeners are running.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	s.httpServer = &http.Server{
		Addr:         s.config.Server.Listen,
		Handler:      s.Router(),
		ReadTimeout:  s.config.Server.ReadTimeout.Duration(),
		WriteTimeout: s.config.Server.WriteTimeout.Duration(),
		IdleTimeout:  s.config.Server.IdleTimeout.Duration(),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		logging.Info("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("HTTP server failed", "error", err)
		}
	}()

	if s.config.Metrics.Enabled {
		path := s.config.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		mux := http.NewServeMux()
		mux.Handle(path, s.metrics.Handler())
		s.metricsServer = &http.Server{
			Addr:    s.config.Metrics.Listen,
			Handler: mux,
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			logging.Info("metrics server listening", "addr", s.metricsServer.Addr, "path", path)
			if err := s.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("metrics server failed", "error", err)
			}
		}()
	}

	s.running = true
	return nil
}

// Stop gracefully shuts the server down within the configured grace period.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	graceful := s.config.Server.GracefulPeriod.Duration()
	if graceful == 0 {
		graceful = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, graceful)
	defer cancel()

	var firstErr error
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		firstErr = fmt.Errorf("shutdown HTTP server: %w", err)
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("shutdown metrics server: %w", err)
		}
	}

	s.wg.Wait()
	s.running = false

	if err := logging.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
