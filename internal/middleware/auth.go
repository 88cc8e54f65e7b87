package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims issued to property staff. Subject is the staff user id.
type Claims struct {
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens
// and stores the caller's user and tenant in the request context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid || claims.Subject == "" || claims.TenantID == "" {
			logger.Warn("Token is missing subject or tenant claim")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, claims.Subject)
		ctx = context.WithValue(ctx, tenantIDKey, claims.TenantID)
		enrichedLogger := logger.With(
			slog.String("user_id", claims.Subject),
			slog.String("tenant_id", claims.TenantID),
		)
		c.Request = c.Request.WithContext(WithLogger(ctx, enrichedLogger))
		c.Set(string(userIDKey), claims.Subject)

		c.Next()
	}
}
