package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterhq/workforce-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func shiftRows(shifts ...models.Shift) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "schedule_id", "staff_id", "start_time", "end_time", "type", "status", "clock_in", "clock_out", "created_at"})
	for _, s := range shifts {
		rows.AddRow(s.ID, s.ScheduleID, s.StaffID, s.StartTime, s.EndTime, s.Type, s.Status, s.ClockIn, s.ClockOut, s.CreatedAt)
	}
	return rows
}

func TestShiftRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	created := time.Now()
	mock.ExpectQuery("INSERT INTO shifts").
		WithArgs(int64(3), nil, sqlmock.AnyArg(), sqlmock.AnyArg(), "day", models.ShiftStatusScheduled).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(9), created))

	shift := &models.Shift{
		ScheduleID: 3,
		StartTime:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC),
		Type:       models.ShiftTypeDay,
		Status:     models.ShiftStatusScheduled,
	}
	require.NoError(t, repo.Create(context.Background(), shift))
	assert.Equal(t, int64(9), shift.ID)
	assert.Equal(t, created, shift.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepositoryFindByIDNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM shifts WHERE id").
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepositoryListBySchedule(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	staff := int64(10)
	mock.ExpectQuery(regexp.QuoteMeta("FROM shifts WHERE schedule_id = $1 ORDER BY start_time ASC, id ASC")).
		WithArgs(int64(3)).
		WillReturnRows(shiftRows(
			models.Shift{ID: 1, ScheduleID: 3, StaffID: &staff, Type: "day", Status: models.ShiftStatusScheduled},
			models.Shift{ID: 2, ScheduleID: 3, Type: "night", Status: models.ShiftStatusScheduled},
		))

	shifts, err := repo.ListBySchedule(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, int64(1), shifts[0].ID)
	assert.Nil(t, shifts[1].StaffID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepositoryListUnassigned(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE schedule_id = $1 AND staff_id IS NULL ORDER BY start_time ASC, id ASC")).
		WithArgs(int64(3)).
		WillReturnRows(shiftRows(models.Shift{ID: 2, ScheduleID: 3, Type: "day", Status: models.ShiftStatusScheduled}))

	shifts, err := repo.ListUnassigned(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepositoryListAssignedForStaffIDsEmpty(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	shifts, err := repo.ListAssignedForStaffIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, shifts)
}

func TestShiftRepositoryAssignStaff(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE shifts SET staff_id = $2 WHERE id = $1 AND staff_id IS NULL")).
		WithArgs(int64(2), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.AssignStaff(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepositoryAssignStaffAlreadyTaken(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE shifts SET staff_id = $2 WHERE id = $1 AND staff_id IS NULL")).
		WithArgs(int64(2), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.AssignStaff(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepositoryClockInCompareAndSet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	at := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE shifts SET status = $3, clock_in = $2 WHERE id = $1 AND status = $4")).
		WithArgs(int64(2), at, models.ShiftStatusInProgress, models.ShiftStatusScheduled).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.ClockIn(context.Background(), 2, at)
	require.NoError(t, err)
	assert.True(t, ok)

	// Second clock-in finds the status already advanced.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE shifts SET status = $3, clock_in = $2 WHERE id = $1 AND status = $4")).
		WithArgs(int64(2), at, models.ShiftStatusInProgress, models.ShiftStatusScheduled).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err = repo.ClockIn(context.Background(), 2, at)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepositoryTransitionStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE shifts SET status = $3 WHERE id = $1 AND status = $2")).
		WithArgs(int64(2), models.ShiftStatusScheduled, models.ShiftStatusNoShow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.TransitionStatus(context.Background(), 2, models.ShiftStatusScheduled, models.ShiftStatusNoShow)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
