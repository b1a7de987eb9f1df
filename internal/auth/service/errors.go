package service

import "errors"

// Authentication and authorization failure kinds. These stay distinct all the
// way up so the transport can keep 401 and 403 semantics apart; anything not
// listed here that bubbles out of a service call is an internal error.
var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrWrongScope         = errors.New("invalid_token_scope")
	ErrTokenExpired       = errors.New("token_expired")
	ErrTokenRevoked       = errors.New("token_revoked")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrUserInactive       = errors.New("user_inactive")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailTaken         = errors.New("email_already_registered")
)
