package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler/appointment"
	authhandler "github.com/jwalitptl/hospital-api/internal/handler/auth"
	"github.com/jwalitptl/hospital-api/internal/handler/doctor"
	"github.com/jwalitptl/hospital-api/internal/handler/health"
	"github.com/jwalitptl/hospital-api/internal/handler/invoice"
	"github.com/jwalitptl/hospital-api/internal/handler/legacy"
	"github.com/jwalitptl/hospital-api/internal/handler/patient"
	"github.com/jwalitptl/hospital-api/internal/handler/prometheus"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/model"
)

type Handlers struct {
	Legacy      *legacy.Handler
	Auth        *authhandler.Handler
	Patient     *patient.Handler
	Doctor      *doctor.Handler
	Appointment *appointment.Handler
	Invoice     *invoice.Handler
	Health      *health.Handler
	Metrics     *prometheus.Handler
}

type RouterConfig struct {
	RequestTimeout time.Duration
	MaxBodySize    int64
	AllowedOrigins []string

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	// LegacyRequireAuth puts the root level routes behind bearer auth.
	// /login and /signup stay public.
	LegacyRequireAuth bool
}

type Router struct {
	engine *gin.Engine
	auth   *middleware.AuthMiddleware
	h      Handlers
	config RouterConfig
}

func NewRouter(auth *middleware.AuthMiddleware, h Handlers, config RouterConfig) *Router {
	engine := gin.New()

	if config.MaxBodySize <= 0 {
		config.MaxBodySize = middleware.DefaultMaxBodySize
	}

	r := &Router{
		engine: engine,
		auth:   auth,
		h:      h,
		config: config,
	}

	// Add core middlewares
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		h.Metrics.Middleware(),
		middleware.SecurityHeaders(),
		middleware.CORS(config.AllowedOrigins),
	)

	if config.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RPS:   config.RateLimitRPS,
			Burst: config.RateLimitBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	engine.Use(
		middleware.SizeLimit(config.MaxBodySize),
		middleware.Timeout(config.RequestTimeout),
	)

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", r.h.Metrics.Handler())

	r.setupLegacyRoutes()

	api := r.engine.Group("/api/v1")

	// Add version header
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.h.Health.RegisterRoutes(api)

	// Public routes; validate and logout authenticate themselves
	r.h.Auth.RegisterRoutes(api, r.auth)

	// Protected routes
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupLegacyRoutes() {
	root := r.engine.Group("")
	r.h.Legacy.RegisterPublicRoutes(root)

	staff := root
	if r.config.LegacyRequireAuth {
		root = root.Group("", r.auth.Authenticate())
		staff = root.Group("", r.auth.RequireRole(model.RoleAdmin))
	}
	r.h.Legacy.RegisterRoutes(root)
	r.h.Legacy.RegisterStaffRoutes(staff)
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	r.h.Patient.RegisterRoutes(rg)
	r.h.Doctor.RegisterRoutes(rg, r.auth)
	r.h.Appointment.RegisterRoutes(rg)
	r.h.Invoice.RegisterRoutes(rg, r.auth)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
