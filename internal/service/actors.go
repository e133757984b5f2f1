package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rosterhq/workforce-api/internal/models"
	appErrors "github.com/rosterhq/workforce-api/pkg/errors"
)

// userReader is the slice of the user repository the engine needs. Every
// operation takes the acting identity explicitly; there is no ambient
// current-user state.
type userReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
}

// requireAdmin resolves the acting admin. A missing user or a non-admin role
// both read as "not permitted" rather than leaking which ids exist.
func requireAdmin(ctx context.Context, users userReader, adminID int64) (*models.User, error) {
	user, err := users.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "only admins can perform this action")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to fetch admin")
	}
	if user.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "only admins can perform this action")
	}
	return user, nil
}

// requireStaff resolves the acting staff member with the same rules.
func requireStaff(ctx context.Context, users userReader, staffID int64) (*models.User, error) {
	user, err := users.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "only staff members can perform this action")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to fetch staff member")
	}
	if user.Role != models.RoleStaff {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "only staff members can perform this action")
	}
	return user, nil
}
