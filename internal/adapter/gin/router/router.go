package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-dashboard/internal/adapter/gin/handler"
	"user-dashboard/internal/adapter/gin/middleware"
	"user-dashboard/pkg/logger"
)

// SessionCookieName is the cookie carrying the dashboard session
const SessionCookieName = "dashboard_session"

// SessionConfig configures the session cookie
type SessionConfig struct {
	Secret       string
	MaxAge       int
	SecureCookie bool
}

// NewSessionStore creates the signed cookie store backing dashboard sessions
func NewSessionStore(cfg SessionConfig) sessions.Store {
	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	dashboardHandler *handler.DashboardHandler,
	rateLimiter *middleware.RateLimiter,
	store sessions.Store,
	serviceName string,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(logger.RequestIDMiddleware())
	router.Use(middleware.Logger(log))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})

	pages := router.Group("/", sessions.Sessions(SessionCookieName, store))
	{
		pages.GET("", dashboardHandler.Root)

		dashboard := pages.Group("/dashboard/:userId")
		{
			dashboard.GET("", dashboardHandler.Show)

			// Mutating routes are rate limited
			mutations := dashboard.Group("", rateLimiter.Middleware())
			{
				mutations.POST("/refresh", dashboardHandler.Refresh)
				mutations.POST("/users", dashboardHandler.CreateUser)
				mutations.POST("/users/:id", dashboardHandler.UpdateUser)
				mutations.POST("/users/:id/edit", dashboardHandler.BeginEdit)
				mutations.POST("/users/:id/delete", dashboardHandler.DeleteUser)
				mutations.POST("/edit/cancel", dashboardHandler.CancelEdit)
			}
		}
	}

	return router
}
