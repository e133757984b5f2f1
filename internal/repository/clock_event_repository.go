package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rosterhq/workforce-api/internal/models"
)

// ClockEventRepository persists the append-only clock audit trail. There are
// deliberately no update or delete operations.
type ClockEventRepository struct {
	db *sqlx.DB
}

// NewClockEventRepository creates a new clock event repository.
func NewClockEventRepository(db *sqlx.DB) *ClockEventRepository {
	return &ClockEventRepository{db: db}
}

// Append records a clock event and fills the generated id.
func (r *ClockEventRepository) Append(ctx context.Context, event *models.ClockEvent) error {
	query := `INSERT INTO clock_events (shift_id, staff_id, kind, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	row := r.db.QueryRowxContext(ctx, query, event.ShiftID, event.StaffID, event.Kind, event.Timestamp)
	if err := row.Scan(&event.ID); err != nil {
		return fmt.Errorf("append clock event: %w", err)
	}
	return nil
}

// ListByShift returns the audit trail for one shift in recorded order.
func (r *ClockEventRepository) ListByShift(ctx context.Context, shiftID int64) ([]models.ClockEvent, error) {
	query := `SELECT id, shift_id, staff_id, kind, timestamp
		FROM clock_events WHERE shift_id = $1 ORDER BY id ASC`
	var events []models.ClockEvent
	if err := r.db.SelectContext(ctx, &events, query, shiftID); err != nil {
		return nil, fmt.Errorf("list clock events for shift %d: %w", shiftID, err)
	}
	return events, nil
}
