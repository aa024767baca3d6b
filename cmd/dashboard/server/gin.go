package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ginhandler "user-dashboard/internal/adapter/gin/handler"
	"user-dashboard/internal/adapter/gin/middleware"
	ginrouter "user-dashboard/internal/adapter/gin/router"
	"user-dashboard/internal/config"
)

// SetupGinServer creates the HTTP server serving the dashboard pages
func SetupGinServer(
	cfg *config.Config,
	handler *ginhandler.DashboardHandler,
	rateLimiter *middleware.RateLimiter,
	env string,
	l *zap.Logger,
) *http.Server {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store := ginrouter.NewSessionStore(ginrouter.SessionConfig{
		Secret:       cfg.Session.Secret,
		MaxAge:       cfg.Session.MaxAgeSeconds,
		SecureCookie: cfg.Session.SecureCookie,
	})
	router := ginrouter.SetupRouter(handler, rateLimiter, store, cfg.Logger.ServiceName, l)

	addr := ":" + cfg.App.HTTPPort
	l.Info("dashboard server configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Page renders wait on the directory load, so the write window covers its timeout.
		WriteTimeout: time.Duration(cfg.Directory.TimeoutSeconds)*time.Second + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
