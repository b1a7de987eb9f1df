package jwtx_test

import (
	"testing"
	"time"

	"github.com/pixelbay/photoshare/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T, cfg jwtx.IssuerConfig) *jwtx.Issuer {
	t.Helper()
	return jwtx.NewIssuer(newTestCodec(t), cfg)
}

func TestIssuer_DefaultTTLs(t *testing.T) {
	issuer := newTestIssuer(t, jwtx.IssuerConfig{})

	require.Equal(t, jwtx.DefaultAccessTokenTTL, issuer.TTL(jwtx.ScopeAccess))
	require.Equal(t, jwtx.DefaultRefreshTokenTTL, issuer.TTL(jwtx.ScopeRefresh))
	require.Equal(t, jwtx.DefaultResetTokenTTL, issuer.TTL(jwtx.ScopePasswordReset))
}

func TestIssuer_ConfiguredTTLs(t *testing.T) {
	issuer := newTestIssuer(t, jwtx.IssuerConfig{
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 48 * time.Hour,
		ResetTTL:   15 * time.Minute,
	})

	require.Equal(t, 5*time.Minute, issuer.TTL(jwtx.ScopeAccess))
	require.Equal(t, 48*time.Hour, issuer.TTL(jwtx.ScopeRefresh))
	require.Equal(t, 15*time.Minute, issuer.TTL(jwtx.ScopePasswordReset))
}

func TestIssuer_IssueAndDecode(t *testing.T) {
	issuer := newTestIssuer(t, jwtx.IssuerConfig{})

	for _, scope := range []jwtx.Scope{jwtx.ScopeAccess, jwtx.ScopeRefresh, jwtx.ScopePasswordReset} {
		t.Run(string(scope), func(t *testing.T) {
			raw, err := issuer.Issue(scope, "a@x.com", 0)
			require.NoError(t, err)

			claims, err := issuer.Decode(scope, raw)
			require.NoError(t, err)
			require.Equal(t, "a@x.com", claims.Subject)
			require.Equal(t, scope, claims.Scope)
			require.NotEmpty(t, claims.ID, "jti should be stamped")
		})
	}
}

func TestIssuer_ScopeIsolation(t *testing.T) {
	issuer := newTestIssuer(t, jwtx.IssuerConfig{})

	refresh, err := issuer.Issue(jwtx.ScopeRefresh, "a@x.com", 0)
	require.NoError(t, err)

	// A refresh token must never be accepted where access is required.
	_, err = issuer.Decode(jwtx.ScopeAccess, refresh)
	require.ErrorIs(t, err, jwtx.ErrWrongScope)

	reset, err := issuer.Issue(jwtx.ScopePasswordReset, "a@x.com", 0)
	require.NoError(t, err)

	_, err = issuer.Decode(jwtx.ScopeAccess, reset)
	require.ErrorIs(t, err, jwtx.ErrWrongScope)
}

func TestIssuer_TTLOverride(t *testing.T) {
	issuer := newTestIssuer(t, jwtx.IssuerConfig{})
	now := time.Now().UTC()

	raw, err := issuer.Issue(jwtx.ScopeAccess, "a@x.com", 2*time.Hour)
	require.NoError(t, err)

	claims, err := issuer.Decode(jwtx.ScopeAccess, raw)
	require.NoError(t, err)
	require.InDelta(t, (2 * time.Hour).Seconds(), claims.ExpiresAt.Sub(now).Seconds(), 5)
}

func TestIssuer_UnsupportedScope(t *testing.T) {
	issuer := newTestIssuer(t, jwtx.IssuerConfig{})

	_, err := issuer.Issue(jwtx.Scope("id_token"), "a@x.com", 0)
	require.ErrorIs(t, err, jwtx.ErrUnsupportedScope)

	_, err = issuer.Decode(jwtx.Scope("id_token"), "whatever")
	require.ErrorIs(t, err, jwtx.ErrUnsupportedScope)
}

func TestIssuer_CarriesUsername(t *testing.T) {
	issuer := newTestIssuer(t, jwtx.IssuerConfig{})

	claims := jwtx.Claims{Username: "annie"}
	claims.Subject = "a@x.com"

	raw, err := issuer.IssueClaims(jwtx.ScopeAccess, claims, 0)
	require.NoError(t, err)

	decoded, err := issuer.Decode(jwtx.ScopeAccess, raw)
	require.NoError(t, err)
	require.Equal(t, "annie", decoded.Username)
	require.Equal(t, "a@x.com", decoded.Subject)
}
