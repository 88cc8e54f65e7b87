package handlers

import (
	"time"

	"github.com/SscSPs/property_management_app/cmd/docs"
	portssvc "github.com/SscSPs/property_management_app/internal/core/ports/services"
	"github.com/SscSPs/property_management_app/internal/middleware"
	"github.com/SscSPs/property_management_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouteOptions tunes the property-scoped routes.
type RouteOptions struct {
	// DefaultCutoverHour applies to properties without their own cutover hour.
	DefaultCutoverHour int
	// Now is the clock used to resolve the open business date. Defaults to time.Now.
	Now func() time.Time
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	RegisterPropertyRoutes(v1, services, RouteOptions{DefaultCutoverHour: cfg.DefaultCutoverHour})

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// RegisterPropertyRoutes mounts every property-scoped route on v1. Callers must
// have authenticated the request already.
func RegisterPropertyRoutes(v1 *gin.RouterGroup, services *portssvc.ServiceContainer, opts RouteOptions) {
	registerValidators()

	if opts.Now == nil {
		opts.Now = time.Now
	}
	dates := businessDateResolver{now: opts.Now, defaultCutoverHour: opts.DefaultCutoverHour}

	property := v1.Group("/properties/:property_id", requireProperty(services.Property))

	registerStayRoutes(property, services.Stay, services.Folio)
	registerFolioRoutes(property, services.Folio, services.Reconciliation)
	registerNightAuditRoutes(property, services.NightAudit, dates)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
