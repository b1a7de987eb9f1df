package jwtx

import (
	"fmt"
	"time"
)

// strategy is one row of the issuer's dispatch table: the scope tag baked
// into minted tokens and the default lifetime applied when the caller does
// not override it.
type strategy struct {
	scope Scope
	ttl   time.Duration
}

// IssuerConfig overrides the default per-scope lifetimes. Zero values keep
// the package defaults.
type IssuerConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration
}

// Issuer mints scoped tokens through the Codec, selecting per-scope behavior
// from a dispatch table. Adding a scope is a table entry, nothing else.
type Issuer struct {
	codec      *Codec
	strategies map[Scope]strategy
}

// NewIssuer builds an Issuer over the codec with one strategy per known scope.
func NewIssuer(codec *Codec, cfg IssuerConfig) *Issuer {
	access := cfg.AccessTTL
	if access <= 0 {
		access = DefaultAccessTokenTTL
	}
	refresh := cfg.RefreshTTL
	if refresh <= 0 {
		refresh = DefaultRefreshTokenTTL
	}
	reset := cfg.ResetTTL
	if reset <= 0 {
		reset = DefaultResetTokenTTL
	}

	return &Issuer{
		codec: codec,
		strategies: map[Scope]strategy{
			ScopeAccess:        {scope: ScopeAccess, ttl: access},
			ScopeRefresh:       {scope: ScopeRefresh, ttl: refresh},
			ScopePasswordReset: {scope: ScopePasswordReset, ttl: reset},
		},
	}
}

// Issue mints a token for subject under the given scope. A ttlOverride of
// zero applies the scope's default lifetime. An unknown scope is a caller
// programming error and returns ErrUnsupportedScope.
func (i *Issuer) Issue(scope Scope, subject string, ttlOverride time.Duration) (string, error) {
	claims := Claims{}
	claims.Subject = subject
	return i.IssueClaims(scope, claims, ttlOverride)
}

// IssueClaims mints a token carrying caller-supplied claims. The scope tag,
// issuer, timestamps and jti are stamped on top of whatever the caller
// provides; the subject must already be set in c.
func (i *Issuer) IssueClaims(scope Scope, c Claims, ttlOverride time.Duration) (string, error) {
	strat, ok := i.strategies[scope]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScope, scope)
	}

	ttl := strat.ttl
	if ttlOverride > 0 {
		ttl = ttlOverride
	}

	now := time.Now().UTC()
	base := NewClaims(strat.scope, c.Subject, i.codec.issuer, ttl, now)
	base.Username = c.Username

	return i.codec.Encode(base)
}

// Decode verifies raw against the given scope's tag via the codec.
func (i *Issuer) Decode(scope Scope, raw string) (Claims, error) {
	strat, ok := i.strategies[scope]
	if !ok {
		return Claims{}, fmt.Errorf("%w: %q", ErrUnsupportedScope, scope)
	}
	return i.codec.Decode(raw, strat.scope)
}

// TTL reports the default lifetime configured for a scope. It returns zero
// for unknown scopes.
func (i *Issuer) TTL(scope Scope) time.Duration {
	return i.strategies[scope].ttl
}
