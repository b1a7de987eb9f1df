package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pixelbay/photoshare/internal/auth/domain"
	"github.com/pixelbay/photoshare/internal/auth/store"
)

// ErrInvalidRole is returned when a role change names a role outside the
// closed set.
var ErrInvalidRole = errors.New("invalid_role")

// AdminService implements the moderation operations: banning, unbanning and
// role changes. Authorization is the caller's job; these methods assume the
// guard already passed.
type AdminService struct {
	Store store.Store
}

// BanUser flips the target's active flag off. Outstanding tokens stay valid
// cryptographically but fail resolution from the next request on.
func (s *AdminService) BanUser(ctx context.Context, userID string) error {
	return s.setActive(ctx, userID, false)
}

// UnbanUser re-enables a banned account.
func (s *AdminService) UnbanUser(ctx context.Context, userID string) error {
	return s.setActive(ctx, userID, true)
}

func (s *AdminService) setActive(ctx context.Context, userID string, active bool) error {
	if err := s.Store.Users().SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("auth: set active: %w", err)
	}
	return nil
}

// ChangeRole moves the target to another role in the closed set.
func (s *AdminService) ChangeRole(ctx context.Context, userID string, role domain.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	if err := s.Store.Users().UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("auth: update role: %w", err)
	}
	return nil
}

// GetUser loads a user by id for admin inspection.
func (s *AdminService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("auth: load user: %w", err)
	}
	return user, nil
}
