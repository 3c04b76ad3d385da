package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims represents the claims carried by an access token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

// GetUserID returns the user ID from the claims
func (c *TokenClaims) GetUserID() uuid.UUID {
	return c.UserID
}

// GetRole returns the role from the claims
func (c *TokenClaims) GetRole() string {
	return c.Role
}
