// Package server hosts the scanner's HTTP + WebSocket control API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/arbisport/arbisport/internal/domain"
	"github.com/arbisport/arbisport/internal/server/handler"
	"github.com/arbisport/arbisport/internal/server/middleware"
	"github.com/arbisport/arbisport/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled

	// Per-client API rate limiting; disabled when Limiter is nil.
	Limiter     domain.RateLimiter
	ClientLimit int
	ClientWin   time.Duration
}

// Handlers aggregates all HTTP handlers the server registers.
type Handlers struct {
	Health *handler.HealthHandler
	Scan   *handler.ScanHandler
	Arb    *handler.ArbHandler
	Logs   *handler.LogsHandler
}

// Server is the headless HTTP + WebSocket API for the scanner.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a Server with all routes registered and the middleware
// chain (CORS, logging, auth, optional rate limiting) applied.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check.
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Scan lifecycle.
	mux.HandleFunc("POST /api/scan/start", handlers.Scan.Start)
	mux.HandleFunc("POST /api/scan/stop", handlers.Scan.Stop)
	mux.HandleFunc("POST /api/scan/snapshot", handlers.Scan.Snapshot)
	mux.HandleFunc("GET /api/scan/status", handlers.Scan.Status)

	// On-demand rescan.
	mux.HandleFunc("POST /api/rescan", handlers.Scan.Rescan)

	// History surfaces.
	mux.HandleFunc("GET /api/arbitrage/recent", handlers.Arb.ListRecent)
	mux.HandleFunc("GET /api/logs", handlers.Logs.List)

	// WebSocket endpoint.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	var h http.Handler = mux
	h = middleware.Auth(cfg.APIKey)(h)
	if cfg.Limiter != nil && cfg.ClientLimit > 0 {
		h = middleware.RateLimit(cfg.Limiter, cfg.ClientLimit, cfg.ClientWin)(h)
	}
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
