// Package server assembles medfichas-server: the HTTP API that acts as the
// remote system of record for offline-first clients.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/medfichas/internal/server/handlers"
	"github.com/iudanet/medfichas/internal/server/jwt"
	"github.com/iudanet/medfichas/internal/server/middleware"
	"github.com/iudanet/medfichas/pkg/api"
)

// ShutdownTimeout время на завершение активных запросов при остановке
const ShutdownTimeout = 10 * time.Second

// Storage is what the server needs from the database.
type Storage interface {
	handlers.PatientStorage
	handlers.Pinger
}

// Options настройки HTTP сервера
type Options struct {
	Storage    Storage
	JWT        *jwt.Service
	Logger     *slog.Logger
	Version    string
	RateLimit  int
	RateWindow time.Duration
}

// Server is the HTTP server of the patients API.
type Server struct {
	handler http.Handler
	limiter *middleware.RateLimiter
	logger  *slog.Logger
}

// New builds the router and the middleware chain.
func New(opts Options) *Server {
	limiter := middleware.NewRateLimiter(opts.RateLimit, opts.RateWindow, opts.Logger)

	health := handlers.NewHealthHandler(opts.Logger, opts.Storage, opts.Version)
	patients := handlers.NewPatientsHandler(opts.Logger, opts.Storage)
	auth := middleware.AuthMiddleware(opts.Logger, opts.JWT)

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+api.HealthPath, health.Health)
	mux.Handle("GET "+api.PatientsPath, auth(http.HandlerFunc(patients.List)))
	mux.Handle("POST "+api.PatientsPath, auth(http.HandlerFunc(patients.Upsert)))
	mux.Handle("GET "+api.PatientsPath+"/{id}", auth(http.HandlerFunc(patients.Get)))
	mux.Handle("DELETE "+api.PatientsPath+"/{id}", auth(http.HandlerFunc(patients.Delete)))

	// Порядок: recovery -> logging -> rate limit -> маршруты
	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(limiter)(handler)
	handler = middleware.LoggingMiddleware(opts.Logger, api.HealthPath)(handler)
	handler = middleware.RecoveryMiddleware(opts.Logger)(handler)

	return &Server{
		handler: handler,
		limiter: limiter,
		logger:  opts.Logger,
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Close stops background work of the middleware.
func (s *Server) Close() {
	s.limiter.Stop()
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}
