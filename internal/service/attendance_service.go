package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rosterhq/workforce-api/internal/models"
	appErrors "github.com/rosterhq/workforce-api/pkg/errors"
)

type attendanceShiftRepo interface {
	FindByID(ctx context.Context, id int64) (*models.Shift, error)
	ClockIn(ctx context.Context, shiftID int64, at time.Time) (bool, error)
	ClockOut(ctx context.Context, shiftID int64, at time.Time) (bool, error)
	TransitionStatus(ctx context.Context, shiftID int64, from, to models.ShiftStatus) (bool, error)
}

type clockEventAppender interface {
	Append(ctx context.Context, event *models.ClockEvent) error
}

// AttendanceService governs the per-shift attendance state machine:
// SCHEDULED -> IN_PROGRESS -> COMPLETED, with SCHEDULED -> NO_SHOW as a
// terminal reached by an external sweep. Transitions are compare-and-set in
// the repository, so two racing clock-ins yield exactly one success.
type AttendanceService struct {
	shifts  attendanceShiftRepo
	events  clockEventAppender
	users   userReader
	logger  *zap.Logger
	metrics *MetricsService
	now     func() time.Time
}

// NewAttendanceService wires the attendance tracker.
func NewAttendanceService(shifts attendanceShiftRepo, events clockEventAppender, users userReader, logger *zap.Logger, metrics *MetricsService) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		shifts:  shifts,
		events:  events,
		users:   users,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// ClockIn starts work on a shift owned by the acting staff member.
func (s *AttendanceService) ClockIn(ctx context.Context, staffID, shiftID int64) (*models.Shift, error) {
	shift, err := s.authorizedShift(ctx, staffID, shiftID)
	if err != nil {
		return nil, err
	}

	at := s.now().UTC()
	ok, err := s.shifts.ClockIn(ctx, shiftID, at)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to clock in")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "shift is not awaiting clock-in")
	}

	s.appendEvent(ctx, shiftID, staffID, models.ClockKindIn, at)
	shift.Status = models.ShiftStatusInProgress
	shift.ClockIn = &at
	return shift, nil
}

// ClockOut completes work on a shift. Clocking out before clocking in, or
// twice, fails the status compare-and-set.
func (s *AttendanceService) ClockOut(ctx context.Context, staffID, shiftID int64) (*models.Shift, error) {
	shift, err := s.authorizedShift(ctx, staffID, shiftID)
	if err != nil {
		return nil, err
	}

	at := s.now().UTC()
	ok, err := s.shifts.ClockOut(ctx, shiftID, at)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to clock out")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "shift is not in progress")
	}

	s.appendEvent(ctx, shiftID, staffID, models.ClockKindOut, at)
	shift.Status = models.ShiftStatusCompleted
	shift.ClockOut = &at
	return shift, nil
}

// MarkNoShow applies the SCHEDULED -> NO_SHOW transition rule. The time-based
// sweep that calls this lives outside the engine.
func (s *AttendanceService) MarkNoShow(ctx context.Context, shiftID int64) error {
	if _, err := s.findShift(ctx, shiftID); err != nil {
		return err
	}
	ok, err := s.shifts.TransitionStatus(ctx, shiftID, models.ShiftStatusScheduled, models.ShiftStatusNoShow)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to mark no-show")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrInvalidState, "shift is not awaiting clock-in")
	}
	return nil
}

func (s *AttendanceService) authorizedShift(ctx context.Context, staffID, shiftID int64) (*models.Shift, error) {
	if _, err := requireStaff(ctx, s.users, staffID); err != nil {
		return nil, err
	}
	shift, err := s.findShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if !shift.AssignedTo(staffID) {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "shift does not belong to this staff member")
	}
	return shift, nil
}

func (s *AttendanceService) findShift(ctx context.Context, shiftID int64) (*models.Shift, error) {
	shift, err := s.shifts.FindByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "shift not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to fetch shift")
	}
	return shift, nil
}

// appendEvent records the audit trail entry. The status transition is the
// source of truth; a failed append is logged, not surfaced.
func (s *AttendanceService) appendEvent(ctx context.Context, shiftID, staffID int64, kind models.ClockKind, at time.Time) {
	event := &models.ClockEvent{ShiftID: shiftID, StaffID: staffID, Kind: kind, Timestamp: at}
	if err := s.events.Append(ctx, event); err != nil {
		s.logger.Error("failed to append clock event",
			zap.Int64("shift_id", shiftID),
			zap.Int64("staff_id", staffID),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.RecordClockEvent(string(kind))
	}
}
