package middleware

import (
	"net/http"

	"faculty-connect/internal/config"

	"github.com/gin-gonic/gin"
)

// AdminAuth gates the admin endpoints behind the shared token from config.
// The token is accepted either as the X-Admin-Token header or as the
// configured session cookie. The workflow behind this gate performs no
// authentication of its own.
func AdminAuth(cfg *config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Token == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"message": "Admin access is not configured",
			})
			return
		}

		token := c.GetHeader("X-Admin-Token")
		if token == "" {
			if cookie, err := c.Cookie(cfg.SessionCookie); err == nil {
				token = cookie
			}
		}

		if token != cfg.Token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication required",
			})
			return
		}

		c.Next()
	}
}
