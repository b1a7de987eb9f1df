package http

import (
	"errors"
	"net/http"

	"github.com/pixelbay/photoshare/internal/auth/domain"
	"github.com/pixelbay/photoshare/internal/auth/service"
	"github.com/pixelbay/photoshare/pkg/httpx"
	"github.com/pixelbay/photoshare/pkg/slogx"
)

// AdminHandler serves the moderation endpoints. All routes are mounted
// behind Authenticate plus RequireRoles(admin), so handlers only deal with
// the operation itself.
type AdminHandler struct {
	AdminService *service.AdminService
}

func (h *AdminHandler) HandleBan(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *AdminHandler) HandleUnban(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *AdminHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	targetID := r.PathValue("id")
	if targetID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "user id is required")
		return
	}

	var err error
	if active {
		err = h.AdminService.UnbanUser(ctx, targetID)
	} else {
		err = h.AdminService.BanUser(ctx, targetID)
	}
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "user_not_found", "")
			return
		}
		log.Error("ban/unban failed", "user_id", targetID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	actor, _ := UserFromContext(ctx)
	log.Info("user active flag changed",
		"user_id", targetID,
		"active", active,
		"actor_id", actor.ID,
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) HandleRoleChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	targetID := r.PathValue("id")
	if targetID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "user id is required")
		return
	}

	role, ok := requireFormFields(w, r, "role")
	if !ok {
		return
	}

	err := h.AdminService.ChangeRole(ctx, targetID, domain.Role(role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			httpx.WriteError(w, http.StatusBadRequest,
				"invalid_role", "role must be one of admin, moderator, user")
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusNotFound, "user_not_found", "")
		default:
			log.Error("role change failed", "user_id", targetID, "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	actor, _ := UserFromContext(ctx)
	log.Info("user role changed",
		"user_id", targetID,
		"role", role,
		"actor_id", actor.ID,
	)
	w.WriteHeader(http.StatusNoContent)
}
