package hikeusers

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the claims a verified bearer token carries
type AuthClaims interface {
	Subject() string
	UserID() string
	Username() string
	IsAdmin() bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	UserName string `json:"username,omitempty"`
	Admin    bool   `json:"is_admin"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Username returns the username claim, falling back to the subject
func (c *JWTClaims) Username() string {
	if c.UserName != "" {
		return c.UserName
	}
	return c.Subject()
}

// IsAdmin reports whether the token was issued for an administrator
func (c *JWTClaims) IsAdmin() bool {
	return c.Admin
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
