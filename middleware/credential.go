package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CredentialKey is the gin context key holding the caller's Google bearer
// token. The token is forwarded to the Google transports as-is and never
// stored.
const CredentialKey = "credential"

// ExtractCredential pulls the bearer token off the Authorization header into
// the context. It never rejects: the assistant answers unauthenticated turns
// with a Spanish sign-in prompt instead of a 401.
func ExtractCredential() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" {
				c.Set(CredentialKey, token)
			}
		}
		c.Next()
	}
}

// RequireCredential aborts with 401 when no bearer token is present. Used on
// the direct mail and calendar endpoints, where there is no conversational
// fallback.
func RequireCredential() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetCredential(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		c.Next()
	}
}

// GetCredential returns the bearer token set by ExtractCredential, or "".
func GetCredential(c *gin.Context) string {
	if v, ok := c.Get(CredentialKey); ok {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}
