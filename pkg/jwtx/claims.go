package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scope declares the purpose a token was minted for. A token minted under one
// scope must never be accepted where a different scope is required.
type Scope string

const (
	// ScopeAccess is the short-lived credential presented on API calls.
	ScopeAccess Scope = "access_token"

	// ScopeRefresh is the longer-lived credential exchanged for new pairs.
	ScopeRefresh Scope = "refresh_token"

	// ScopePasswordReset is the single-purpose credential mailed out for
	// password recovery.
	ScopePasswordReset Scope = "password_reset"
)

// Default token TTLs per scope. These are defaults only; the issuer accepts a
// per-call override.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	// Short-lived for security - typical range is 15m to 1h.
	DefaultAccessTokenTTL = 30 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 24 * time.Hour

	// DefaultResetTokenTTL is the default lifetime for password-reset tokens.
	DefaultResetTokenTTL = time.Hour
)

var (
	ErrInvalidToken     = errors.New("jwtx: invalid token")
	ErrWrongScope       = errors.New("jwtx: wrong token scope")
	ErrExpired          = errors.New("jwtx: token expired")
	ErrNotYetValid      = errors.New("jwtx: token not yet valid")
	ErrUnsupportedScope = errors.New("jwtx: unsupported token scope")
)

// Claims are the signed contents of a token: the registered JWT claims plus
// the scope tag and optional profile fields carried for convenience.
type Claims struct {
	jwt.RegisteredClaims

	// Scope tags the purpose the token was minted for. Always set.
	Scope Scope `json:"scope"`

	// Username for the authenticated user, informational only.
	Username string `json:"username,omitempty"`
}

// NewClaims builds minimally-correct claims for a subject under a scope.
func NewClaims(scope Scope, subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Scope: scope,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateScope checks the embedded scope against the expected one.
func (c *Claims) ValidateScope(expected Scope) error {
	if c.Scope != expected {
		return ErrWrongScope
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}

// RemainingLifetime returns how long the token is still valid for, clamped to
// zero when it is already past its expiry.
func (c *Claims) RemainingLifetime(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := c.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
