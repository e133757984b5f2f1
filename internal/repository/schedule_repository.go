package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rosterhq/workforce-api/internal/models"
)

// ScheduleRepository provides persistence for schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create inserts a schedule and fills the generated id and timestamp.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	query := `INSERT INTO schedules (name, created_by, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query, schedule.Name, schedule.CreatedBy, schedule.UserID)
	if err := row.Scan(&schedule.ID, &schedule.CreatedAt); err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}

// FindByID returns one schedule or sql.ErrNoRows.
func (r *ScheduleRepository) FindByID(ctx context.Context, id int64) (*models.Schedule, error) {
	query := `SELECT id, name, created_by, user_id, strategy_used, created_at
		FROM schedules WHERE id = $1`
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, fmt.Errorf("find schedule %d: %w", id, err)
	}
	return &schedule, nil
}

// SetStrategyUsed records the strategy that last populated the schedule.
func (r *ScheduleRepository) SetStrategyUsed(ctx context.Context, id int64, strategy string) error {
	query := `UPDATE schedules SET strategy_used = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, strategy); err != nil {
		return fmt.Errorf("set strategy for schedule %d: %w", id, err)
	}
	return nil
}
