package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/pixelbay/photoshare/internal/auth/service"
	"github.com/pixelbay/photoshare/pkg/httpx"
	"github.com/pixelbay/photoshare/pkg/slogx"
)

// AuthHandler serves the credential lifecycle endpoints: register, login,
// refresh, logout and password reset. Request bodies are URL-encoded forms.
type AuthHandler struct {
	AuthService *service.AuthService
}

type registerResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	email, ok := requireFormFields(w, r, "email", "username", "password")
	if !ok {
		return
	}
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.AuthService.Register(ctx, email, username, password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			httpx.WriteError(w, http.StatusConflict,
				"email_already_registered", "")
			return
		}
		log.Error("register failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	log.Info("user registered", "user_id", user.ID, "role", user.Role.String())
	httpx.WriteJSON(w, http.StatusCreated, registerResponse{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role.String(),
	})
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	email, ok := requireFormFields(w, r, "email", "password")
	if !ok {
		return
	}
	password := r.FormValue("password")

	pair, err := h.AuthService.Login(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized,
				"invalid_credentials", "incorrect email or password")
		case errors.Is(err, service.ErrUserInactive):
			httpx.WriteError(w, http.StatusForbidden,
				"account_disabled", "")
		default:
			log.Error("login failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	writeTokenPair(w, pair.AccessToken, pair.RefreshToken, pair.ExpiresIn)
}

func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	refreshToken, ok := requireFormFields(w, r, "refresh_token")
	if !ok {
		return
	}

	pair, err := h.AuthService.Refresh(ctx, refreshToken)
	if err != nil {
		if isAuthFailure(err) {
			log.Warn("refresh rejected", "err", err)
			writeUnauthorized(w)
			return
		}
		log.Error("refresh failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	writeTokenPair(w, pair.AccessToken, pair.RefreshToken, pair.ExpiresIn)
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token, ok := BearerFromRequest(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	if err := h.AuthService.Logout(ctx, token); err != nil {
		if isAuthFailure(err) {
			log.Warn("logout rejected", "err", err)
			writeUnauthorized(w)
			return
		}
		log.Error("logout failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) HandleResetRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	email, ok := requireFormFields(w, r, "email")
	if !ok {
		return
	}

	if err := h.AuthService.RequestPasswordReset(ctx, email); err != nil {
		log.Error("password reset request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	// Always accepted, whether or not the address exists.
	w.WriteHeader(http.StatusAccepted)
}

func (h *AuthHandler) HandleResetConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token, ok := requireFormFields(w, r, "token", "new_password")
	if !ok {
		return
	}
	newPassword := r.FormValue("new_password")

	if err := h.AuthService.ResetPassword(ctx, token, newPassword); err != nil {
		if isAuthFailure(err) {
			log.Warn("password reset rejected", "err", err)
			writeUnauthorized(w)
			return
		}
		log.Error("password reset failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requireFormFields parses the form and checks each named field is present,
// writing a 400 and returning false on the first one missing. The first
// field's value is returned as a convenience.
func requireFormFields(w http.ResponseWriter, r *http.Request, fields ...string) (string, bool) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "invalid form data")
		return "", false
	}

	for _, f := range fields {
		if r.FormValue(f) == "" {
			httpx.WriteError(w, http.StatusBadRequest,
				"invalid_request", f+" is required")
			return "", false
		}
	}
	return r.FormValue(fields[0]), true
}

func writeTokenPair(w http.ResponseWriter, access, refresh string, expiresIn time.Duration) {
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(expiresIn.Seconds()),
	})
}
