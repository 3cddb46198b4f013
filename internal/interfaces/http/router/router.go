// Package router wires handlers and middleware into a gin engine.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopadmin/backend/internal/infrastructure/logger"
	"github.com/shopadmin/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Config holds router configuration
type Config struct {
	ServiceName    string
	APIVersion     string
	TracingEnabled bool
	CORS           middleware.CORSConfig
}

// DefaultConfig returns the default router configuration
func DefaultConfig() Config {
	return Config{
		ServiceName:    "shopadmin-backend",
		APIVersion:     "v1",
		TracingEnabled: true,
		CORS:           middleware.DefaultCORSConfig(),
	}
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	cfg        Config
	registrars []RouteRegistrar
}

// NewRouter creates a router with the standard middleware chain applied
// to the engine: request ID, logging, recovery, CORS, security headers
// and tracing.
func NewRouter(engine *gin.Engine, cfg Config, log *zap.Logger) *Router {
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(cfg.CORS),
		middleware.Secure(),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.ServiceName,
			Enabled:     cfg.TracingEnabled,
		}),
		middleware.SpanErrorMarker(),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return &Router{
		engine:     engine,
		cfg:        cfg,
		registrars: make([]RouteRegistrar, 0),
	}
}

// Register adds a RouteRegistrar to be registered on Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under the versioned API group
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.cfg.APIVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}
