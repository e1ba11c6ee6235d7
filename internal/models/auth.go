package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims are the claims carried by tokens from the external auth service.
// The user id travels in the registered "sub" claim.
type JWTClaims struct {
	Role UserRole `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the authenticated user's id.
func (c *JWTClaims) UserID() string {
	if c == nil {
		return ""
	}
	return c.Subject
}
