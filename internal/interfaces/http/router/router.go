package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration. Public registrars are mounted
// directly under the API prefix; protected registrars get the auth
// middleware chain in front of them.
type Router struct {
	engine         *gin.Engine
	apiVersion     string
	authMiddleware []gin.HandlerFunc
	public         []RouteRegistrar
	protected      []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithAuthMiddleware sets the middleware applied to protected routes
func WithAuthMiddleware(middleware ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.authMiddleware = middleware
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RegisterPublic adds a registrar mounted without authentication
func (r *Router) RegisterPublic(registrar RouteRegistrar) *Router {
	r.public = append(r.public, registrar)
	return r
}

// Register adds a registrar mounted behind the auth middleware
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.protected = append(r.protected, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.public {
		registrar.RegisterRoutes(api)
	}

	authed := r.engine.Group("/api/"+r.apiVersion, r.authMiddleware...)
	for _, registrar := range r.protected {
		registrar.RegisterRoutes(authed)
	}
}
