// Package server assembles the HTTP API from the feature handlers.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mikepea/teamhome/pkg/teamhome/auth"
	"github.com/mikepea/teamhome/pkg/teamhome/content"
	"github.com/mikepea/teamhome/pkg/teamhome/events"
	"github.com/mikepea/teamhome/pkg/teamhome/oidc"
	"github.com/mikepea/teamhome/pkg/teamhome/store"
	"github.com/mikepea/teamhome/pkg/teamhome/teams"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the services the router exposes
type Deps struct {
	DB      *gorm.DB
	Repos   *store.Repositories
	Teams   *teams.Service
	Content *content.Service

	// Auth0 is nil when Auth0 login is not configured
	Auth0 oidc.Authenticator

	AllowedOrigins []string

	// ReturnOrigins bound where a login may redirect with its token
	ReturnOrigins []string
	Logger        *zap.Logger
}

// NewRouter registers every route under /api
func NewRouter(deps Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery())

	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	health := func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "teamhome"})
	}
	r.GET("/health", health)

	api := r.Group("/api")
	{
		api.GET("/health", health)

		// Auth routes (public)
		auth.NewHandler(deps.DB).RegisterRoutes(api.Group("/auth"))

		if deps.Auth0 != nil {
			oidc.NewHandler(deps.Repos.Users, deps.Auth0, deps.ReturnOrigins, logger).RegisterRoutes(api.Group("/oidc"))
		}

		teamsGroup := api.Group("/teams", auth.AuthMiddleware())
		teams.NewHandler(deps.Teams).RegisterRoutes(teamsGroup)
		content.NewHandler(deps.Content).RegisterRoutes(teamsGroup)

		events.NewHandler(events.NewService(deps.Repos.Events, deps.Repos.Teams)).RegisterRoutes(api.Group("/events", auth.AuthMiddleware()))
	}

	return r
}

// requestLogger logs one line per request
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if userID, ok := auth.GetUserID(c); ok {
			fields = append(fields, zap.Uint("user_id", userID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= 500 {
			logger.Error("request", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}
