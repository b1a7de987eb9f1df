package domain

import "time"

// TokenPair is what login and refresh return: the short-lived access token
// and the longer-lived refresh token, both scoped JWTs.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"` // always "bearer"
	ExpiresIn    time.Duration `json:"expires_in"` // access token lifetime
}
