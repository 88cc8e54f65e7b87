package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/property_management_app/internal/core/ports/services"
	"github.com/SscSPs/property_management_app/internal/dto"
	"github.com/SscSPs/property_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const propertyCtxKey = "property"

// requireProperty resolves :property_id and rejects properties outside the caller's tenant.
func requireProperty(propertySvc portssvc.PropertyAuthorizerSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		tenantID, ok := middleware.GetTenantIDFromContext(c)
		if !ok {
			logger.Error("Tenant ID not found in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
			return
		}

		propertyID := c.Param("property_id")
		property, err := propertySvc.AuthorizeTenant(c.Request.Context(), tenantID, propertyID)
		if err != nil {
			respondError(c, logger, err, "Failed to load property")
			c.Abort()
			return
		}

		enriched := logger.With(slog.String("property_id", propertyID))
		c.Request = c.Request.WithContext(middleware.WithLogger(c.Request.Context(), enriched))
		c.Set(propertyCtxKey, property)
		c.Next()
	}
}

// propertyFromContext returns the property loaded by requireProperty.
func propertyFromContext(c *gin.Context) *domain.Property {
	if v, ok := c.Get(propertyCtxKey); ok {
		if p, ok := v.(*domain.Property); ok {
			return p
		}
	}
	return nil
}

// actorFromContext returns the authenticated user id, writing a 401 when absent.
func actorFromContext(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}

// businessDateResolver turns an optional YYYY-MM-DD into the business date an
// audit step applies to. An empty value resolves the property's open business
// date once, at request time.
type businessDateResolver struct {
	now                func() time.Time
	defaultCutoverHour int
}

func (r businessDateResolver) resolve(property *domain.Property, raw string) (time.Time, error) {
	if raw != "" {
		d, err := time.Parse(domain.DateLayout, raw)
		if err != nil {
			return time.Time{}, err
		}
		return domain.NormalizeDate(d), nil
	}
	cutover := property.CutoverHour
	if cutover <= 0 {
		cutover = r.defaultCutoverHour
	}
	return domain.ResolveBusinessDate(r.now(), property.Location(), cutover), nil
}
