package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"user-dashboard/cmd/dashboard/di"
)

// evictionInterval is how often idle dashboard sessions are swept
const evictionInterval = time.Minute

// Server holds the HTTP server and the background session sweeper
type Server struct {
	Logger    *zap.Logger
	HTTP      *http.Server
	container *di.Container
}

// New creates a new server instance
func New(c *di.Container, env string) *Server {
	return &Server{
		Logger:    c.Logger,
		HTTP:      SetupGinServer(c.Config, c.DashboardHandler, c.RateLimiter, env, c.Logger),
		container: c,
	}
}

// Start sweeps idle sessions until ctx is done and serves HTTP until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	go s.container.Sessions.Run(ctx, evictionInterval)

	s.Logger.Info("dashboard server running", zap.String("address", s.HTTP.Addr))
	if err := s.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}
