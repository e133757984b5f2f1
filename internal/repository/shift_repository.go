package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rosterhq/workforce-api/internal/models"
)

const shiftColumns = `id, schedule_id, staff_id, start_time, end_time, type, status, clock_in, clock_out, created_at`

// ShiftRepository provides persistence for shifts. Single-row guards
// (staff_id IS NULL on assignment, status checks on clock transitions) are
// expressed in SQL so concurrent writers cannot interleave.
type ShiftRepository struct {
	db *sqlx.DB
}

// NewShiftRepository creates a new shift repository.
func NewShiftRepository(db *sqlx.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// Create inserts a shift and fills the generated id and timestamp.
func (r *ShiftRepository) Create(ctx context.Context, shift *models.Shift) error {
	query := `INSERT INTO shifts (schedule_id, staff_id, start_time, end_time, type, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query,
		shift.ScheduleID, shift.StaffID, shift.StartTime, shift.EndTime, shift.Type, shift.Status)
	if err := row.Scan(&shift.ID, &shift.CreatedAt); err != nil {
		return fmt.Errorf("insert shift: %w", err)
	}
	return nil
}

// FindByID returns one shift or sql.ErrNoRows.
func (r *ShiftRepository) FindByID(ctx context.Context, id int64) (*models.Shift, error) {
	query := fmt.Sprintf(`SELECT %s FROM shifts WHERE id = $1`, shiftColumns)
	var shift models.Shift
	if err := r.db.GetContext(ctx, &shift, query, id); err != nil {
		return nil, fmt.Errorf("find shift %d: %w", id, err)
	}
	return &shift, nil
}

// ListBySchedule returns all shifts in a schedule ordered by start time, then
// id as a deterministic tie-break.
func (r *ShiftRepository) ListBySchedule(ctx context.Context, scheduleID int64) ([]models.Shift, error) {
	query := fmt.Sprintf(`SELECT %s FROM shifts WHERE schedule_id = $1 ORDER BY start_time ASC, id ASC`, shiftColumns)
	var shifts []models.Shift
	if err := r.db.SelectContext(ctx, &shifts, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list shifts for schedule %d: %w", scheduleID, err)
	}
	return shifts, nil
}

// ListUnassigned returns the open shifts of a schedule in assignment order.
func (r *ShiftRepository) ListUnassigned(ctx context.Context, scheduleID int64) ([]models.Shift, error) {
	query := fmt.Sprintf(`SELECT %s FROM shifts WHERE schedule_id = $1 AND staff_id IS NULL ORDER BY start_time ASC, id ASC`, shiftColumns)
	var shifts []models.Shift
	if err := r.db.SelectContext(ctx, &shifts, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list open shifts for schedule %d: %w", scheduleID, err)
	}
	return shifts, nil
}

// ListAssignedForStaff returns a staff member's assigned shifts across all
// schedules, for conflict checking.
func (r *ShiftRepository) ListAssignedForStaff(ctx context.Context, staffID int64) ([]models.Shift, error) {
	query := fmt.Sprintf(`SELECT %s FROM shifts WHERE staff_id = $1 ORDER BY start_time ASC, id ASC`, shiftColumns)
	var shifts []models.Shift
	if err := r.db.SelectContext(ctx, &shifts, query, staffID); err != nil {
		return nil, fmt.Errorf("list shifts for staff %d: %w", staffID, err)
	}
	return shifts, nil
}

// ListAssignedForStaffIDs returns assigned shifts for a set of staff members
// in one round trip.
func (r *ShiftRepository) ListAssignedForStaffIDs(ctx context.Context, staffIDs []int64) ([]models.Shift, error) {
	if len(staffIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM shifts WHERE staff_id = ANY($1) ORDER BY start_time ASC, id ASC`, shiftColumns)
	var shifts []models.Shift
	if err := r.db.SelectContext(ctx, &shifts, query, pq.Array(staffIDs)); err != nil {
		return nil, fmt.Errorf("list shifts for staff pool: %w", err)
	}
	return shifts, nil
}

// ListAll returns every shift ordered by start time; the combined roster view.
func (r *ShiftRepository) ListAll(ctx context.Context) ([]models.Shift, error) {
	query := fmt.Sprintf(`SELECT %s FROM shifts ORDER BY start_time ASC, id ASC`, shiftColumns)
	var shifts []models.Shift
	if err := r.db.SelectContext(ctx, &shifts, query); err != nil {
		return nil, fmt.Errorf("list all shifts: %w", err)
	}
	return shifts, nil
}

// AssignStaff fills an open shift. The staff_id IS NULL guard makes the
// assignment lost-update safe; false means the shift was already taken.
func (r *ShiftRepository) AssignStaff(ctx context.Context, shiftID, staffID int64) (bool, error) {
	query := `UPDATE shifts SET staff_id = $2 WHERE id = $1 AND staff_id IS NULL`
	res, err := r.db.ExecContext(ctx, query, shiftID, staffID)
	if err != nil {
		return false, fmt.Errorf("assign shift %d: %w", shiftID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("assign shift %d: %w", shiftID, err)
	}
	return affected == 1, nil
}

// ClockIn moves a shift from SCHEDULED to IN_PROGRESS and stamps the clock-in
// time. Compare-and-set on status: false means the shift was not in the
// SCHEDULED state, so exactly one of two racing calls succeeds.
func (r *ShiftRepository) ClockIn(ctx context.Context, shiftID int64, at time.Time) (bool, error) {
	query := `UPDATE shifts SET status = $3, clock_in = $2 WHERE id = $1 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, shiftID, at, models.ShiftStatusInProgress, models.ShiftStatusScheduled)
	if err != nil {
		return false, fmt.Errorf("clock in shift %d: %w", shiftID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("clock in shift %d: %w", shiftID, err)
	}
	return affected == 1, nil
}

// ClockOut moves a shift from IN_PROGRESS to COMPLETED and stamps the
// clock-out time. Same compare-and-set contract as ClockIn.
func (r *ShiftRepository) ClockOut(ctx context.Context, shiftID int64, at time.Time) (bool, error) {
	query := `UPDATE shifts SET status = $3, clock_out = $2 WHERE id = $1 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, shiftID, at, models.ShiftStatusCompleted, models.ShiftStatusInProgress)
	if err != nil {
		return false, fmt.Errorf("clock out shift %d: %w", shiftID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("clock out shift %d: %w", shiftID, err)
	}
	return affected == 1, nil
}

// TransitionStatus performs a bare compare-and-set on status. Used for the
// externally-triggered SCHEDULED to NO_SHOW sweep.
func (r *ShiftRepository) TransitionStatus(ctx context.Context, shiftID int64, from, to models.ShiftStatus) (bool, error) {
	query := `UPDATE shifts SET status = $3 WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, query, shiftID, from, to)
	if err != nil {
		return false, fmt.Errorf("transition shift %d: %w", shiftID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition shift %d: %w", shiftID, err)
	}
	return affected == 1, nil
}
