package models

import "time"

// Schedule is a named container of shifts owned by the admin who created it.
type Schedule struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedBy int64     `db:"created_by" json:"created_by"`
	// UserID optionally pins the schedule to a single user's roster.
	UserID       *int64    `db:"user_id" json:"user_id,omitempty"`
	StrategyUsed *string   `db:"strategy_used" json:"strategy_used,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
