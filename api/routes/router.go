// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"busdesk/internal/availability"
	"busdesk/internal/bookings"
	"busdesk/internal/notifications"
	"busdesk/internal/payments"
	"busdesk/internal/seats"
	"busdesk/internal/sessions"
	"busdesk/internal/shared/config"
	"busdesk/internal/shared/database"
	"busdesk/internal/shared/middleware"
	"busdesk/internal/upstream"
	"busdesk/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher notifications.Publisher

	api            *upstream.Client
	cacheService   cache.Service
	layoutService  seats.LayoutService
	availability   availability.Client
	bookingService bookings.Service
	paymentService payments.Service
	manager        *sessions.Manager
}

// NewRouter wires the upstream clients and the session manager
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher) *Router {
	r := &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}

	r.api = upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)

	// Redis when available, otherwise an in-process cache
	if rdb := db.GetRedisClient(); rdb != nil {
		r.cacheService = cache.NewService(rdb)
	} else {
		r.cacheService = cache.NewMemoryService()
	}

	var layoutRepo seats.Repository
	if pg := db.GetPostgreSQL(); pg != nil {
		layoutRepo = seats.NewRepository(pg)
	}
	r.layoutService = seats.NewLayoutService(layoutRepo, r.cacheService, cfg.Redis.LayoutTTL)

	r.availability = availability.NewClient(r.api)
	r.bookingService = bookings.NewService(r.api)
	r.paymentService = payments.NewService(r.api)
	r.manager = sessions.NewManager(sessions.ManagerConfig{
		PollInterval:      cfg.Sync.PollInterval,
		DefaultTickets:    cfg.Sync.DefaultTickets,
		PaymentContextTTL: cfg.Redis.SessionTTL,
	}, r.layoutService, r.availability, r.bookingService, publisher, r.cacheService)

	return r
}

// SessionManager exposes the manager so the server can sweep and shut it down
func (r *Router) SessionManager() *sessions.Manager {
	return r.manager
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	auth := middleware.JWTAuthWithConfig(r.config)
	optionalAuth := middleware.OptionalAuthWithConfig(r.config)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupSessionRoutes(api, optionalAuth)
		r.setupAvailabilityRoutes(api, optionalAuth)
		r.setupBookingRoutes(api, auth, optionalAuth)
		r.setupPaymentRoutes(api, auth, optionalAuth)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "busdesk",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "busdesk",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET(r.config.GetAPIBasePath()+"/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "operational",
			"api_version":   r.config.APIVersion,
			"open_sessions": r.manager.Count(),
			"upstream":      r.api.BaseURL(),
			"timestamp":     time.Now(),
		})
	})
}

// setupSessionRoutes configures booking session routes
func (r *Router) setupSessionRoutes(rg *gin.RouterGroup, optionalAuth gin.HandlerFunc) {
	sessionController := sessions.NewController(r.manager)
	sessions.SetupSessionRoutes(rg, sessionController, optionalAuth)
}

// setupAvailabilityRoutes configures the raw seat lock passthrough
func (r *Router) setupAvailabilityRoutes(rg *gin.RouterGroup, optionalAuth gin.HandlerFunc) {
	availabilityController := availability.NewController(r.availability)
	availability.SetupAvailabilityRoutes(rg, availabilityController, optionalAuth)
}

// setupBookingRoutes configures the booking proxy routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup, auth, optionalAuth gin.HandlerFunc) {
	bookingController := bookings.NewController(r.bookingService)
	bookings.SetupBookingRoutes(rg, bookingController, auth, optionalAuth)
}

// setupPaymentRoutes configures the payment handoff routes
func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup, auth, optionalAuth gin.HandlerFunc) {
	paymentController := payments.NewController(r.paymentService)
	payments.SetupPaymentRoutes(rg, paymentController, auth, optionalAuth)
}
