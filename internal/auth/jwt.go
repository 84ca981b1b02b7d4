package auth

import (
	"errors" // Error values
	"time"   // Time for token expiration

	"opportunity_hub/internal/domain" // Identity and roles

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// TokenTTL is how long an issued token stays valid
const TokenTTL = 24 * time.Hour

// ErrInvalidToken is returned for malformed, expired or forged tokens
var ErrInvalidToken = errors.New("invalid or expired token")

// JWT Claims
type Claims struct {
	UserID               uint        `json:"user_id"` // Custom claim for user ID
	Role                 domain.Role `json:"role"`    // Custom claim for the user's role
	jwt.RegisteredClaims             // Standard JWT claims
}

// TokenManager issues and verifies HS256 tokens
type TokenManager struct {
	secret []byte           // Signing key
	now    func() time.Time // Clock, replaceable in tests
}

// NewTokenManager returns a manager signing with secret
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret), now: time.Now}
}

// Issue creates a token for the given user
func (m *TokenManager) Issue(userID uint, role domain.Role) (string, error) {
	now := m.now()
	// Set token claims
	claims := Claims{
		UserID: userID, // Custom claim for user ID
		Role:   role,   // Custom claim for role
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)), // Token expires in 24 hours
			IssuedAt:  jwt.NewNumericDate(now),               // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(m.secret)                        // Sign the token with the secret
}

// Verify parses a token and resolves the identity it carries
func (m *TokenManager) Verify(tokenStr string) (domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return m.secret, nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	// Check for parsing errors
	if err != nil {
		return domain.Identity{}, errors.Join(ErrInvalidToken, err)
	}
	// Validate token and extract claims
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 || !claims.Role.Valid() {
		return domain.Identity{}, ErrInvalidToken
	}
	return domain.Identity{UserID: claims.UserID, Role: claims.Role}, nil
}
