package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"opportunity_hub/internal/domain" // Identity and roles

	"github.com/gin-gonic/gin" // Gin web framework
)

// identityKey is where Authenticate stores the caller
const identityKey = "identity"

// TokenVerifier resolves a bearer token to the caller's identity
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// Authenticate validates the bearer token and stores the resolved identity
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")) // Extract the token string
		identity, err := verifier.Verify(tokenStr)                               // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Token is not valid"})
			return
		}
		c.Set(identityKey, identity) // Store identity in context
		c.Next()                     // Proceed to the next handler
	}
}

// RequireRole lets the request through only when the caller holds one of roles
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c) // Set by Authenticate
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
			return
		}
		for _, r := range roles {
			if identity.Role == r {
				c.Next()
				return
			}
		}
		// Role mismatch is reported as 401, same as an ownership mismatch
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Not authorized as " + roleList(roles)})
	}
}

// IdentityFrom returns the caller stored by Authenticate
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := v.(domain.Identity)
	return identity, ok
}

func roleList(roles []domain.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, " or ")
}
