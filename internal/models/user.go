package models

import "time"

// UserRole distinguishes schedule owners from shift workers.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleStaff UserRole = "staff"
)

// Valid returns true when the role is a supported value.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// User is an account known to the scheduling engine. Staff users form the
// assignment pool; admin users own schedules.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Role         UserRole  `db:"role" json:"role"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
