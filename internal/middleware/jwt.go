package middleware

import (
	"strings" // String manipulation

	"user_management/internal/errs"  // Failure kinds
	"user_management/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// IdentityKey is the gin context key holding the authenticated email
const IdentityKey = "identity"

// JWTAuthMiddleware validates bearer tokens and stores the email identity
// in the request context. All non-login routes run behind it.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			errs.AbortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			errs.AbortUnauthorized(c, "Invalid or expired token")
			return
		}
		c.Set(IdentityKey, claims.Email) // Store identity in context
		c.Next()
	}
}
