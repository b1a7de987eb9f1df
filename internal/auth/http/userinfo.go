package http

import (
	"net/http"

	"github.com/pixelbay/photoshare/pkg/httpx"
)

type userInfoResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// UserInfoHandler returns the authenticated principal. Runs behind
// Authenticate, so the user is already resolved and active.
type UserInfoHandler struct{}

func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userInfoResponse{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role.String(),
		Active:   user.Active,
	})
}
