package di

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"user-dashboard/cmd/dashboard/infrastructure"
	"user-dashboard/internal/adapter/directory"
	ginhandler "user-dashboard/internal/adapter/gin/handler"
	"user-dashboard/internal/adapter/gin/middleware"
	"user-dashboard/internal/adapter/session"
	"user-dashboard/internal/config"
	"user-dashboard/internal/usecase/dashboard"
	redisclient "user-dashboard/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *zap.Logger
	RedisClient      *redisclient.Client // nil when rate limiting is disabled
	Directory        *directory.Client
	Sessions         *session.Registry
	RateLimiter      *middleware.RateLimiter
	DashboardHandler *ginhandler.DashboardHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	var limiterClient *goredis.Client
	if cfg.RateLimit.Enabled {
		rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb
		limiterClient = rdb.Client
	}

	c.Directory = directory.New(directory.Config{
		BaseURL: cfg.Directory.BaseURL,
		Timeout: time.Duration(cfg.Directory.TimeoutSeconds) * time.Second,
	}, l.Named("directory"))

	viewLog := l.Named("dashboard")
	c.Sessions = session.NewRegistry(func() *dashboard.View {
		return dashboard.NewView(c.Directory, cfg.Directory.ManagerID, viewLog)
	}, time.Duration(cfg.Session.IdleTTLSeconds)*time.Second, l.Named("sessions"))

	c.RateLimiter = middleware.NewRateLimiter(limiterClient, middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstCapacity:     cfg.RateLimit.BurstCapacity,
		Enabled:           cfg.RateLimit.Enabled,
	}, l)

	c.DashboardHandler = ginhandler.NewDashboardHandler(c.Sessions, l)

	return c, nil
}

// Close releases every resource held by the container
func (c *Container) Close() error {
	var err error

	if c.Sessions != nil {
		c.Sessions.Close()
	}

	if c.RedisClient != nil {
		if cerr := c.RedisClient.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close Redis: %w", cerr))
		}
	}

	return err
}
