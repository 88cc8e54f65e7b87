package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/property_management_app/internal/utils"
	"github.com/gin-gonic/gin"
)

var untrackedPaths = map[string]bool{
	"/health": true,
}

// PosthogMiddleware reports successful API calls to PostHog, keyed by the staff user.
// Route templates become event names, e.g. "/api/v1/properties/:property_id/rooms"
// is tracked as "api_v1_properties_rooms".
func PosthogMiddleware(client *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !client.IsInitialized() || untrackedPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}
		eventName := EventNameForRoute(c.FullPath())
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		}
		if tenantID, ok := GetTenantIDFromContext(c); ok {
			props["tenant_id"] = tenantID
		}
		if propertyID := c.Param("property_id"); propertyID != "" {
			props["property_id"] = propertyID
		}
		client.Enqueue(userID, eventName, props)
	}
}

// EventNameForRoute turns a gin route template into a PostHog event name,
// dropping path parameters.
func EventNameForRoute(fullPath string) string {
	segments := strings.Split(strings.Trim(fullPath, "/"), "/")
	kept := segments[:0]
	for _, s := range segments {
		if s == "" || strings.HasPrefix(s, ":") {
			continue
		}
		kept = append(kept, strings.ReplaceAll(s, "-", "_"))
	}
	return strings.Join(kept, "_")
}
