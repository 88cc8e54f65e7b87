package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// contextKey is a private type for values stored in request contexts.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
	tenantIDKey  = contextKey("tenantID")
)

// GetLoggerFromCtx returns the request-scoped logger stored in ctx, or the
// default logger when none was injected (background jobs, tests).
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userIDVal, exists := c.Get(string(userIDKey)); exists {
		userID, ok := userIDVal.(string)
		return userID, ok && userID != ""
	}
	// check in the request context as well
	if userID, ok := c.Request.Context().Value(userIDKey).(string); ok && userID != "" {
		return userID, true
	}
	return "", false
}

// GetTenantIDFromContext retrieves the tenant claim of the authenticated caller.
func GetTenantIDFromContext(c *gin.Context) (string, bool) {
	if tenantID, ok := c.Request.Context().Value(tenantIDKey).(string); ok && tenantID != "" {
		return tenantID, true
	}
	return "", false
}
