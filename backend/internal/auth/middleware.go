package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trustocracy/backend/internal/constants"
	"trustocracy/backend/pkg/logger"
)

// Middleware rejects requests without a valid token with 401 and stores
// the user id under constants.UserIDKey otherwise.
func Middleware(tokens *TokenService) gin.HandlerFunc {
	log := logger.Named("auth")
	return func(c *gin.Context) {
		userID, err := tokens.Verify(tokenFromRequest(c))
		if err != nil {
			log.Info("Rejected request", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "please log in"})
			return
		}
		c.Set(constants.UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the id set by Middleware.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(constants.UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// tokenFromRequest prefers the session cookie and falls back to a bearer
// header.
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(constants.TokenCookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
