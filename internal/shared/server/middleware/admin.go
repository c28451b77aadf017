package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hv-analyzer/internal/shared/server/respond"
)

// AdminToken guards maintenance routes. The token is read from the
// X-Admin-Token header or an "Authorization: Bearer" header. An empty
// expected token disables the check.
func AdminToken(expected string) gin.HandlerFunc {
	expected = strings.TrimSpace(expected)
	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}

		got := strings.TrimSpace(c.GetHeader("X-Admin-Token"))
		if got == "" {
			if authHeader := strings.TrimSpace(c.GetHeader("Authorization")); strings.HasPrefix(authHeader, "Bearer ") {
				got = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			}
		}
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid admin token", nil)
			return
		}
		c.Next()
	}
}
