package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pixelbay/photoshare/internal/auth/cache"
	"github.com/pixelbay/photoshare/internal/auth/domain"
	"github.com/pixelbay/photoshare/internal/auth/mail"
	"github.com/pixelbay/photoshare/internal/auth/store"
	"github.com/pixelbay/photoshare/pkg/cryptox"
	"github.com/pixelbay/photoshare/pkg/idx"
	"github.com/pixelbay/photoshare/pkg/jwtx"
	"github.com/pixelbay/photoshare/pkg/slogx"
)

// AuthService is the principal resolver and the write paths around it:
// login, logout, refresh, registration and password reset.
type AuthService struct {
	Issuer   *jwtx.Issuer
	Store    store.Store
	Denylist cache.Denylist
	Mailer   mail.Mailer
}

// Resolve authenticates a bearer token and returns the principal behind it.
//
// The checks run strictly in order and short-circuit: signature/scope/expiry
// via the codec, then the shared denylist, then principal existence and the
// active flag. The denylist runs after the codec so malformed or expired
// tokens never cost a cache lookup, but always before the principal is
// considered authenticated.
func (s *AuthService) Resolve(ctx context.Context, bearer string) (domain.User, error) {
	claims, err := s.Issuer.Decode(jwtx.ScopeAccess, bearer)
	if err != nil {
		return domain.User{}, mapTokenError(err)
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return domain.User{}, ErrInvalidToken
	}

	revoked, err := s.Denylist.IsRevoked(ctx, bearer)
	if err != nil {
		// "We don't know" must stay distinguishable from "not allowed".
		return domain.User{}, fmt.Errorf("auth: denylist lookup: %w", err)
	}
	if revoked {
		return domain.User{}, ErrTokenRevoked
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("auth: load principal: %w", err)
	}

	if !user.Active {
		return domain.User{}, ErrUserInactive
	}

	return user, nil
}

// Login verifies credentials and mints a fresh access/refresh pair.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, fmt.Errorf("auth: login lookup: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Info("login failed", slog.String("email", email))
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		// Corrupted digest: internal fault, never "wrong password".
		return domain.TokenPair{}, fmt.Errorf("auth: verify password: %w", err)
	}

	if !user.Active {
		return domain.TokenPair{}, ErrUserInactive
	}

	return s.issuePair(user)
}

// Logout blacklists the presented access token for its remaining lifetime.
// A garbage token is an error, not a no-op: silently succeeding would mask
// client bugs.
func (s *AuthService) Logout(ctx context.Context, bearer string) error {
	claims, err := s.Issuer.Decode(jwtx.ScopeAccess, bearer)
	if err != nil {
		return mapTokenError(err)
	}

	ttl := claims.RemainingLifetime(time.Now().UTC())
	if err := s.Denylist.Revoke(ctx, bearer, ttl); err != nil {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	return nil
}

// Refresh exchanges a refresh-scoped token for a brand new pair. The user is
// re-loaded and re-checked, so a ban between login and refresh ends the
// session here.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	claims, err := s.Issuer.Decode(jwtx.ScopeRefresh, refreshToken)
	if err != nil {
		return domain.TokenPair{}, mapTokenError(err)
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrUserNotFound
		}
		return domain.TokenPair{}, fmt.Errorf("auth: refresh lookup: %w", err)
	}

	if !user.Active {
		return domain.TokenPair{}, ErrUserInactive
	}

	return s.issuePair(user)
}

// Register creates a new account. The very first account becomes admin;
// everyone after that starts as a regular user.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (domain.User, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Active:       true,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		count, err := tx.Users().CountUsers(ctx)
		if err != nil {
			return err
		}
		if count == 0 {
			user.Role = domain.RoleAdmin
		}
		return tx.Users().CreateUser(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("auth: create user: %w", err)
	}

	return user, nil
}

// RequestPasswordReset mints a reset-scoped token and mails it out. Unknown
// addresses succeed silently so the endpoint can't be used to probe for
// accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("auth: reset lookup: %w", err)
	}

	token, err := s.Issuer.Issue(jwtx.ScopePasswordReset, user.Email, 0)
	if err != nil {
		return fmt.Errorf("auth: mint reset token: %w", err)
	}

	if err := s.Mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		return fmt.Errorf("auth: send reset mail: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset token and stores the new password hash.
// The token is denylisted afterwards so it is single-use even within its
// lifetime.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.Issuer.Decode(jwtx.ScopePasswordReset, resetToken)
	if err != nil {
		return mapTokenError(err)
	}

	revoked, err := s.Denylist.IsRevoked(ctx, resetToken)
	if err != nil {
		return fmt.Errorf("auth: denylist lookup: %w", err)
	}
	if revoked {
		return ErrTokenRevoked
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("auth: reset lookup: %w", err)
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("auth: update password: %w", err)
	}

	// Burn the token. Best effort is not good enough here: a reusable
	// reset token is a live credential, so a failed revoke fails the call.
	ttl := claims.RemainingLifetime(time.Now().UTC())
	if err := s.Denylist.Revoke(ctx, resetToken, ttl); err != nil {
		return fmt.Errorf("auth: burn reset token: %w", err)
	}
	return nil
}

// issuePair mints the access/refresh pair for a user.
func (s *AuthService) issuePair(user domain.User) (domain.TokenPair, error) {
	claims := jwtx.Claims{Username: user.Username}
	claims.Subject = user.Email

	access, err := s.Issuer.IssueClaims(jwtx.ScopeAccess, claims, 0)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("auth: mint access token: %w", err)
	}

	refresh, err := s.Issuer.Issue(jwtx.ScopeRefresh, user.Email, 0)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("auth: mint refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.Issuer.TTL(jwtx.ScopeAccess),
	}, nil
}

// mapTokenError translates codec failures into the service taxonomy, keeping
// scope and expiry failures distinct from plain invalid tokens.
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwtx.ErrWrongScope):
		return ErrWrongScope
	case errors.Is(err, jwtx.ErrExpired):
		return ErrTokenExpired
	default:
		return ErrInvalidToken
	}
}
