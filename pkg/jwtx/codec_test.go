package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/pixelbay/photoshare/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *jwtx.Codec {
	t.Helper()
	codec, err := jwtx.NewCodec([]byte("test-secret-at-least-32-bytes-long"), "photoshare-auth")
	require.NoError(t, err)
	return codec
}

func TestNewCodec_EmptySecret(t *testing.T) {
	_, err := jwtx.NewCodec(nil, "photoshare-auth")
	require.Error(t, err)
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)
	now := time.Now().UTC()

	for _, scope := range []jwtx.Scope{jwtx.ScopeAccess, jwtx.ScopeRefresh, jwtx.ScopePasswordReset} {
		t.Run(string(scope), func(t *testing.T) {
			claims := jwtx.NewClaims(scope, "a@x.com", "photoshare-auth", time.Minute, now)

			raw, err := codec.Encode(claims)
			require.NoError(t, err)
			require.NotEmpty(t, raw)

			decoded, err := codec.Decode(raw, scope)
			require.NoError(t, err)
			require.Equal(t, "a@x.com", decoded.Subject)
			require.Equal(t, scope, decoded.Scope)
		})
	}
}

func TestCodec_WrongScope(t *testing.T) {
	codec := newTestCodec(t)
	now := time.Now().UTC()

	claims := jwtx.NewClaims(jwtx.ScopeRefresh, "a@x.com", "photoshare-auth", time.Minute, now)
	raw, err := codec.Encode(claims)
	require.NoError(t, err)

	_, err = codec.Decode(raw, jwtx.ScopeAccess)
	require.ErrorIs(t, err, jwtx.ErrWrongScope)
}

func TestCodec_Expired(t *testing.T) {
	codec := newTestCodec(t)
	now := time.Now().UTC()

	claims := jwtx.NewClaims(jwtx.ScopeAccess, "a@x.com", "photoshare-auth", -time.Minute, now)
	raw, err := codec.Encode(claims)
	require.NoError(t, err)

	_, err = codec.Decode(raw, jwtx.ScopeAccess)
	require.ErrorIs(t, err, jwtx.ErrExpired)

	// Expiry must never surface as a different error kind.
	require.NotErrorIs(t, err, jwtx.ErrInvalidToken)
	require.NotErrorIs(t, err, jwtx.ErrWrongScope)
}

func TestCodec_TamperedToken(t *testing.T) {
	codec := newTestCodec(t)
	now := time.Now().UTC()

	claims := jwtx.NewClaims(jwtx.ScopeAccess, "a@x.com", "photoshare-auth", time.Minute, now)
	raw, err := codec.Encode(claims)
	require.NoError(t, err)

	t.Run("flipped signature byte", func(t *testing.T) {
		tampered := raw[:len(raw)-2] + "xx"
		_, err := codec.Decode(tampered, jwtx.ScopeAccess)
		require.ErrorIs(t, err, jwtx.ErrInvalidToken)
	})

	t.Run("different secret", func(t *testing.T) {
		other, err := jwtx.NewCodec([]byte("another-secret-entirely-for-testing"), "photoshare-auth")
		require.NoError(t, err)

		_, err = other.Decode(raw, jwtx.ScopeAccess)
		require.ErrorIs(t, err, jwtx.ErrInvalidToken)
	})

	t.Run("malformed input", func(t *testing.T) {
		for _, raw := range []string{"", "garbage", "a.b", strings.Repeat(".", 5)} {
			_, err := codec.Decode(raw, jwtx.ScopeAccess)
			require.ErrorIs(t, err, jwtx.ErrInvalidToken)
		}
	})
}

func TestCodec_IssuerMismatch(t *testing.T) {
	codec := newTestCodec(t)
	now := time.Now().UTC()

	claims := jwtx.NewClaims(jwtx.ScopeAccess, "a@x.com", "some-other-service", time.Minute, now)
	raw, err := codec.Encode(claims)
	require.NoError(t, err)

	_, err = codec.Decode(raw, jwtx.ScopeAccess)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestClaims_RemainingLifetime(t *testing.T) {
	now := time.Now().UTC()

	c := jwtx.NewClaims(jwtx.ScopeAccess, "a@x.com", "photoshare-auth", 10*time.Minute, now)
	remaining := c.RemainingLifetime(now)
	require.InDelta(t, (10 * time.Minute).Seconds(), remaining.Seconds(), 1)

	// Clamped to zero once past expiry, never negative.
	expired := jwtx.NewClaims(jwtx.ScopeAccess, "a@x.com", "photoshare-auth", -time.Minute, now)
	require.Equal(t, time.Duration(0), expired.RemainingLifetime(now))
}
