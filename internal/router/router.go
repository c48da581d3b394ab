package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"                    // import the Echo web framework to handle routing
	echomw "github.com/labstack/echo/v4/middleware" // stock echo middleware (recover, trailing slash)
	"go.uber.org/zap"

	"github.com/iliyamo/ecommerce-backend/internal/auth"
	"github.com/iliyamo/ecommerce-backend/internal/config"
	"github.com/iliyamo/ecommerce-backend/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/ecommerce-backend/internal/logger"
	"github.com/iliyamo/ecommerce-backend/internal/metrics"
	"github.com/iliyamo/ecommerce-backend/internal/middleware" // authentication gates, cache and rate limiting
	"github.com/iliyamo/ecommerce-backend/internal/validation"
)

// Deps is everything New needs to assemble the HTTP stack.  Metrics, DB,
// Cache and RateLimit may be nil.
type Deps struct {
	Cfg       config.Config
	Log       *zap.Logger
	Metrics   *metrics.Metrics
	DB        handler.Pinger
	Authn     *auth.Authenticator
	Auth      *handler.AuthHandler
	Products  *handler.ProductHandler
	Tags      *handler.TagHandler
	Users     *handler.UserHandler
	Cache     *middleware.Cache
	RateLimit echo.MiddlewareFunc
}

// New returns an Echo instance with the global middleware chain, the strict
// binder, the validator, the central error handler and every route.
//
// Middleware order: trailing slashes are stripped before routing; the
// request id is assigned first so the logger can attach it; metrics wrap
// the logger, which hands errors to the error handler, so the recorded
// status is the one the client received; Recover sits innermost so a panic
// is logged and counted like any other 500.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Binder = validation.StrictBinder{}
	e.Validator = validation.New()
	e.HTTPErrorHandler = handler.NewErrorHandler(d.Cfg.IsTest())

	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(
		middleware.RequestID(),
		d.Metrics.Middleware(),
		logger.Middleware(log),
		echomw.Recover(),
	)

	RegisterRoutes(e, d.DB, d.Metrics)
	RegisterAuth(e, d.Auth, d.Authn, d.RateLimit)
	RegisterProducts(e, d.Products, d.Authn, d.Cache)
	RegisterTags(e, d.Tags, d.Authn)
	RegisterUsers(e, d.Users, d.Authn)
	return e
}

// RegisterRoutes registers routes that do not require authentication: the
// health check and, when metrics are enabled, the prometheus endpoint.
func RegisterRoutes(e *echo.Echo, db handler.Pinger, m *metrics.Metrics) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health(db))
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
}

// RegisterAuth registers the authentication routes.  Login and register are
// public and rate limited; logout needs a live session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, authn *auth.Authenticator, limiter echo.MiddlewareFunc) {
	g := e.Group("/auth")
	if limiter == nil {
		limiter = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	g.POST("/login", a.Login, limiter)
	g.POST("/register", a.Register, limiter)
	g.GET("/logout", a.Logout, middleware.Authenticate(authn), middleware.RequireUser)
}

// RegisterProducts registers the catalog routes.  Every route requires a
// user; the read routes are served through the response cache.
func RegisterProducts(e *echo.Echo, h *handler.ProductHandler, authn *auth.Authenticator, cache *middleware.Cache) {
	g := e.Group("/products", middleware.Authenticate(authn), middleware.RequireUser)
	cached := cache.Middleware()

	g.POST("/create", h.Create)
	g.GET("", h.List, cached)
	g.GET("/tag/:tag_id", h.ByTag, cached)
	g.GET("/:id", h.Get, cached)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/rate", h.Rate)
}

// RegisterTags registers the tag catalog routes.
func RegisterTags(e *echo.Echo, h *handler.TagHandler, authn *auth.Authenticator) {
	g := e.Group("/tags", middleware.Authenticate(authn), middleware.RequireUser)
	g.GET("", h.List)
	g.POST("", h.Create)
}

// RegisterUsers registers profile and cart routes.  The static /cart path
// wins over /:user_name in echo's router, so a user named "cart" cannot
// shadow it.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, authn *auth.Authenticator) {
	g := e.Group("/users", middleware.Authenticate(authn), middleware.RequireUser)
	g.GET("", h.Me)
	g.GET("/cart", h.CartItems)
	g.POST("/cart", h.CartAdd)
	g.DELETE("/cart", h.CartRemove)
	g.GET("/:user_name", h.ByUserName, middleware.RequireSelf("user_name"))
}
