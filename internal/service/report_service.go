package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/rosterhq/workforce-api/internal/dto"
	"github.com/rosterhq/workforce-api/internal/models"
	appErrors "github.com/rosterhq/workforce-api/pkg/errors"
)

type reportScheduleRepo interface {
	FindByID(ctx context.Context, id int64) (*models.Schedule, error)
}

type reportShiftRepo interface {
	FindByID(ctx context.Context, id int64) (*models.Shift, error)
	ListBySchedule(ctx context.Context, scheduleID int64) ([]models.Shift, error)
	ListAll(ctx context.Context) ([]models.Shift, error)
}

// ReportService produces read-only projections of schedules and rosters.
// Reports take no locks; a snapshot may miss a shift committed a moment
// later, never a half-committed one.
type ReportService struct {
	schedules reportScheduleRepo
	shifts    reportShiftRepo
	users     userReader
	cache     *CacheService
	logger    *zap.Logger
}

// NewReportService wires the report aggregator.
func NewReportService(schedules reportScheduleRepo, shifts reportShiftRepo, users userReader, cache *CacheService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{schedules: schedules, shifts: shifts, users: users, cache: cache, logger: logger}
}

// BuildReport returns the snapshot report for one schedule.
func (s *ReportService) BuildReport(ctx context.Context, adminID, scheduleID int64) (*dto.ScheduleReport, error) {
	if _, err := requireAdmin(ctx, s.users, adminID); err != nil {
		return nil, err
	}

	key := reportCacheKey(scheduleID)
	var cached dto.ScheduleReport
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to fetch schedule")
	}

	shifts, err := s.shifts.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load shifts")
	}

	names, err := s.staffNames(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.ScheduleReport{
		ID:           schedule.ID,
		Name:         schedule.Name,
		CreatedBy:    schedule.CreatedBy,
		CreatedAt:    schedule.CreatedAt,
		StrategyUsed: schedule.StrategyUsed,
		ShiftCount:   len(shifts),
		Shifts:       s.shiftViews(shifts, names),
	}

	s.cache.Set(ctx, key, report)
	return report, nil
}

// CombinedRoster returns every shift in the system ordered by start time.
// Staff use it to see their own shifts in context of the whole roster.
func (s *ReportService) CombinedRoster(ctx context.Context, staffID int64) ([]dto.ShiftView, error) {
	if _, err := requireStaff(ctx, s.users, staffID); err != nil {
		return nil, err
	}

	shifts, err := s.shifts.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load roster")
	}

	names, err := s.staffNames(ctx)
	if err != nil {
		return nil, err
	}
	return s.shiftViews(shifts, names), nil
}

// StaffShift returns one shift, provided it belongs to the acting staff
// member.
func (s *ReportService) StaffShift(ctx context.Context, staffID, shiftID int64) (*dto.ShiftView, error) {
	staff, err := requireStaff(ctx, s.users, staffID)
	if err != nil {
		return nil, err
	}

	shift, err := s.shifts.FindByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "shift not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to fetch shift")
	}
	if !shift.AssignedTo(staffID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no such shift for this staff member")
	}

	view := dto.NewShiftView(*shift, &staff.Username)
	return &view, nil
}

func (s *ReportService) staffNames(ctx context.Context) (map[int64]string, error) {
	staff, err := s.users.ListByRole(ctx, models.RoleStaff)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load staff names")
	}
	names := make(map[int64]string, len(staff))
	for _, member := range staff {
		names[member.ID] = member.Username
	}
	return names, nil
}

func (s *ReportService) shiftViews(shifts []models.Shift, names map[int64]string) []dto.ShiftView {
	views := make([]dto.ShiftView, 0, len(shifts))
	for _, shift := range shifts {
		var staffName *string
		if shift.StaffID != nil {
			if name, ok := names[*shift.StaffID]; ok {
				staffName = &name
			}
		}
		views = append(views, dto.NewShiftView(shift, staffName))
	}
	return views
}
