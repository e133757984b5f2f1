package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rosterhq/workforce-api/internal/models"
)

const userColumns = `id, username, role, password_hash, active, created_at`

// UserRepository provides read access to the admin and staff accounts. The
// engine treats users as externally provisioned input.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns one user or sql.ErrNoRows.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

// FindByUsername returns one user or sql.ErrNoRows.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return &user, nil
}

// ListByRole returns active users holding the given role, ordered by id so
// strategy pool order is stable between invocations.
func (r *UserRepository) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE role = $1 AND active ORDER BY id ASC`, userColumns)
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, role); err != nil {
		return nil, fmt.Errorf("list %s users: %w", role, err)
	}
	return users, nil
}
