package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/pixelbay/photoshare/internal/auth/domain"
	"github.com/pixelbay/photoshare/internal/auth/service"
	"github.com/pixelbay/photoshare/pkg/httpx"
	"github.com/pixelbay/photoshare/pkg/slogx"
)

type ctxKeyUser struct{}

// UserFromContext returns the principal the Authenticate middleware resolved
// for this request.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxKeyUser{}).(domain.User)
	return u, ok
}

// BearerFromRequest extracts the bearer token from the Authorization header.
func BearerFromRequest(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
	return token, token != ""
}

// Authenticate resolves the bearer token into a principal and injects it into
// the request context. All authentication failures collapse into one generic
// 401 on the wire; the precise kind goes to the log only, so the response is
// not an oracle for why a token was rejected.
func Authenticate(auth *service.AuthService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			token, ok := BearerFromRequest(r)
			if !ok {
				writeUnauthorized(w)
				return
			}

			user, err := auth.Resolve(ctx, token)
			if err != nil {
				if isAuthFailure(err) {
					log.Warn("authentication failed", "err", err)
					writeUnauthorized(w)
					return
				}
				log.Error("authentication backend error", "err", err)
				httpx.WriteError(w, http.StatusInternalServerError,
					"server_error", "")
				return
			}

			ctx = context.WithValue(ctx, ctxKeyUser{}, user)
			ctx = context.WithValue(ctx, httpx.CtxKeyUserID, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles gates a route on the resolved principal's role. Must run
// inside Authenticate.
func RequireRoles(allowed ...domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeUnauthorized(w)
				return
			}

			if err := service.RequireRole(user, allowed...); err != nil {
				httpx.WriteError(w, http.StatusForbidden,
					"forbidden", "insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isAuthFailure reports whether err is a credential problem rather than a
// backend fault. The distinction drives 401 vs 500.
func isAuthFailure(err error) bool {
	for _, kind := range []error{
		service.ErrInvalidToken,
		service.ErrWrongScope,
		service.ErrTokenExpired,
		service.ErrTokenRevoked,
		service.ErrUserNotFound,
		service.ErrUserInactive,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// RFC 6750 bearer challenge with a deliberately uninformative body.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="photoshare", error="invalid_token"`)
	httpx.WriteError(w, http.StatusUnauthorized,
		"unauthorized", "invalid or expired credentials")
}
