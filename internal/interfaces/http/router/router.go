package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/campus/backend/internal/infrastructure/logger"
	"github.com/campus/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar registers a set of routes on a versioned API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router assembles the gin engine with the shared middleware chain and
// the registered route groups.
type Router struct {
	engine      *gin.Engine
	apiVersion  string
	serviceName string
	registrars  []RouteRegistrar
	tracing     bool
	cors        middleware.CORSConfig
}

// Option configures the Router.
type Option func(*Router)

// WithAPIVersion sets the API version prefix.
func WithAPIVersion(version string) Option {
	return func(r *Router) { r.apiVersion = version }
}

// WithTracing enables request tracing middleware.
func WithTracing() Option {
	return func(r *Router) { r.tracing = true }
}

// WithCORS overrides the CORS policy.
func WithCORS(cfg middleware.CORSConfig) Option {
	return func(r *Router) { r.cors = cfg }
}

// New creates a Router around a fresh gin engine.
func New(serviceName string, log *zap.Logger, opts ...Option) *Router {
	middleware.SetupValidator()

	engine := gin.New()
	r := &Router{
		engine:      engine,
		apiVersion:  "v1",
		serviceName: serviceName,
		cors:        middleware.DefaultCORSConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(r.cors))
	if r.tracing {
		engine.Use(otelgin.Middleware(serviceName))
	}

	return r
}

// Register adds a RouteRegistrar.
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts all registered routes under the versioned API prefix and
// returns the engine.
func (r *Router) Setup() *gin.Engine {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	return r.engine
}

// Engine returns the underlying gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// RegistrarFunc adapts a function to the RouteRegistrar interface.
type RegistrarFunc func(rg *gin.RouterGroup)

// RegisterRoutes implements RouteRegistrar.
func (f RegistrarFunc) RegisterRoutes(rg *gin.RouterGroup) {
	f(rg)
}
