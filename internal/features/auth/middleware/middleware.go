package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"miner-backend/internal/features/auth/models"
	"miner-backend/internal/features/auth/service"
)

const (
	userKey    = "user"
	sessionKey = "session"
)

const bearerPrefix = "Bearer "

// RequestGate authenticates every request behind it: it enforces the
// Bearer header shape, verifies the token and attaches the decoded
// claims plus a narrowed session to the context. Downstream handlers
// trust the gate and do not re-verify.
func RequestGate(jwt *service.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access token is missing"})
			return
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Authorization header must be in the format: Bearer <token>",
			})
			return
		}

		token := authHeader[len(bearerPrefix):]
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token format"})
			return
		}

		claims, err := jwt.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid access token or expired"})
			return
		}

		c.Set(userKey, claims)
		c.Set(sessionKey, models.Session{
			UserID:     claims.UserID,
			TelegramID: claims.TelegramID,
		})
		c.Next()
	}
}

// SessionFromContext returns the session the gate attached.
func SessionFromContext(c *gin.Context) (models.Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return models.Session{}, false
	}
	session, ok := v.(models.Session)
	return session, ok
}

// ClaimsFromContext returns the full decoded token claims.
func ClaimsFromContext(c *gin.Context) (*service.SessionClaims, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*service.SessionClaims)
	return claims, ok
}
