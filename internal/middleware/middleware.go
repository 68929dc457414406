package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"hallbook/internal/cache"
	"hallbook/internal/logger"
	"hallbook/internal/repository"

	"github.com/gin-gonic/gin"
)

// Authenticated-user context helpers. The values live under the logger
// package's keys so logger.WithContext picks them up in workflow logs.

func ContextWithUser(ctx context.Context, userID int64, role string) context.Context {
	return logger.ContextWithUser(ctx, userID, role)
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	return logger.UserIDFromContext(ctx)
}

func RoleFromContext(ctx context.Context) (string, bool) {
	return logger.RoleFromContext(ctx)
}

// CORS middleware for cross-origin requests
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// Logger middleware for structured request logging. Tags the request
// context with a request ID so downstream logs correlate.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := logger.NewRequestID()
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()

		latency := time.Since(start)
		userID, exists := c.Get("user_id")

		logFields := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}

		if exists {
			logFields = append(logFields, "user_id", userID)
		}

		if c.Writer.Status() >= 400 {
			if len(c.Errors) > 0 {
				logFields = append(logFields, "error", c.Errors.String())
			}
			slog.Error("Request completed with error", logFields...)
		}
	}
}

// Recovery middleware recovers from panics with detailed logging
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		slog.Error("PANIC recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
	})
}

// BasicAuth authenticates the user via HTTP Basic Auth, checking the Valkey
// cache first and falling back to the database
func BasicAuth(userRepo *repository.UserRepository, valkeyClient *cache.ValkeyClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", "Basic realm=\"Restricted\"")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		// Email is the username
		ctx := c.Request.Context()

		hash := sha256.Sum256([]byte(password))
		passwordHash := fmt.Sprintf("%x", hash)

		if valkeyClient != nil {
			userID, role, err := valkeyClient.GetUserAuth(ctx, username, passwordHash)
			if err == nil {
				setAuthenticated(c, userID, role)
				c.Next()
				return
			}
		}

		user, err := userRepo.GetByEmail(ctx, username)
		if err != nil || user == nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if user.PasswordHash == "" || passwordHash != user.PasswordHash {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if valkeyClient != nil {
			if err := valkeyClient.SetUserAuth(ctx, username, passwordHash, user.ID, user.Role); err != nil {
				slog.Warn("Failed to cache auth entry", "error", err)
			}
		}

		setAuthenticated(c, user.ID, user.Role)
		c.Next()
	}
}

// RequireRole rejects requests whose authenticated role does not match
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}

func setAuthenticated(c *gin.Context, userID int64, role string) {
	c.Set("user_id", userID)
	c.Set("role", role)
	c.Request = c.Request.WithContext(ContextWithUser(c.Request.Context(), userID, role))
}
