package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cartel47-backend/internal/services"
)

const (
	ContextUserID        = "user_id"
	ContextWalletAddress = "wallet_address"
	ContextIsAdmin       = "is_admin"
)

// AuthMiddleware accepts a bearer token, or a token query parameter for
// websocket upgrades, and stores the caller's identity on the context.
func AuthMiddleware(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
				c.Abort()
				return
			}
			tokenString = parts[1]
		} else {
			tokenString = c.Query("token")
			if tokenString == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
				c.Abort()
				return
			}
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextWalletAddress, claims.WalletAddress)
		c.Set(ContextIsAdmin, claims.IsAdmin)

		c.Next()
	}
}

// RateLimitMiddleware limits action per authenticated user. A limiter
// failure lets the request through and is logged.
func RateLimitMiddleware(limiter services.RateLimiter, action string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), userID, action)
		if err != nil {
			log.Warn("rate limit check failed", zap.String("user_id", userID), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": services.RateLimitWindow.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
