package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docverify/internal/auth"
)

// ContextKeySubject holds the calling service name taken from the token subject.
const ContextKeySubject = "subject"

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	Validate(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware returns Gin middleware that validates service tokens and injects
// the caller's subject.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing or invalid authorization header"},
			})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
			return
		}

		c.Set(ContextKeySubject, claims.Subject)
		c.Next()
	}
}

// GetSubject returns the authenticated caller, or "" on unauthenticated routes.
func GetSubject(c *gin.Context) string {
	val, exists := c.Get(ContextKeySubject)
	if !exists {
		return ""
	}
	return val.(string)
}
