package service

import (
	"slices"

	"github.com/pixelbay/photoshare/internal/auth/domain"
)

// Guard is a composable per-operation authorization check. It runs after
// resolution: the input is an already-authenticated principal, the output is
// ErrForbidden or nil. Guards carry no transport types so any protocol layer
// can apply them.
type Guard func(domain.User) error

// Convenience groupings over the closed role set.
var (
	AllRoles         = []domain.Role{domain.RoleAdmin, domain.RoleModerator, domain.RoleUser}
	AdminOrModerator = []domain.Role{domain.RoleAdmin, domain.RoleModerator}
	AdminOnly        = []domain.Role{domain.RoleAdmin}
	ModeratorOnly    = []domain.Role{domain.RoleModerator}
)

// RequireRole allows the user through when their role is in the allowed set.
func RequireRole(user domain.User, allowed ...domain.Role) error {
	if slices.Contains(allowed, user.Role) {
		return nil
	}
	return ErrForbidden
}

// RequireAny builds a Guard from an allowed role set.
func RequireAny(allowed ...domain.Role) Guard {
	return func(user domain.User) error {
		return RequireRole(user, allowed...)
	}
}
