package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec signs and verifies scoped tokens with a single process-wide HMAC
// secret. Encode and Decode are pure functions of their input and the secret;
// neither performs I/O.
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec builds a Codec from the process-wide signing secret. The issuer,
// when non-empty, is stamped into minted tokens and enforced on decode.
func NewCodec(secret []byte, issuer string) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: empty signing secret")
	}
	return &Codec{secret: secret, issuer: issuer}, nil
}

// Issuer returns the configured issuer claim value.
func (c *Codec) Issuer() string { return c.issuer }

// Encode signs the claims with HS256 and returns the compact token string.
func (c *Codec) Encode(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature of raw, then the scope tag, then the expiry
// window. The signature check always runs first so no untrusted claim is
// interpreted before authenticity is established. Failures map to
// ErrInvalidToken (malformed input or signature mismatch), ErrWrongScope and
// ErrExpired respectively.
func (c *Codec) Decode(raw string, expected Scope) (Claims, error) {
	var claims Claims

	// Claims validation is done by hand below so scope/expiry failures stay
	// distinguishable; the library call verifies signature and shape only.
	_, err := jwt.ParseWithClaims(raw, &claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if c.issuer != "" && claims.Issuer != c.issuer {
		return Claims{}, fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	}

	if err := claims.ValidateScope(expected); err != nil {
		return Claims{}, err
	}

	if err := claims.ValidateExpiry(time.Now().UTC()); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	return c.secret, nil
}
