package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rosterhq/workforce-api/internal/dto"
	"github.com/rosterhq/workforce-api/internal/models"
	appErrors "github.com/rosterhq/workforce-api/pkg/errors"
)

type assignmentScheduleRepo interface {
	Create(ctx context.Context, schedule *models.Schedule) error
	FindByID(ctx context.Context, id int64) (*models.Schedule, error)
	SetStrategyUsed(ctx context.Context, id int64, strategy string) error
}

type assignmentShiftRepo interface {
	Create(ctx context.Context, shift *models.Shift) error
	ListBySchedule(ctx context.Context, scheduleID int64) ([]models.Shift, error)
	ListUnassigned(ctx context.Context, scheduleID int64) ([]models.Shift, error)
	ListAssignedForStaff(ctx context.Context, staffID int64) ([]models.Shift, error)
	ListAssignedForStaffIDs(ctx context.Context, staffIDs []int64) ([]models.Shift, error)
	AssignStaff(ctx context.Context, shiftID, staffID int64) (bool, error)
}

// AutoPopulateResult reports a best-effort batch outcome.
type AutoPopulateResult struct {
	Assigned int
	Skipped  int
}

// AssignmentService orchestrates manual shift creation and strategy-driven
// auto-population. Mutations within one schedule take that schedule's lock so
// conflict checks never run against a stale view; operations on different
// schedules do not contend.
type AssignmentService struct {
	schedules  assignmentScheduleRepo
	shifts     assignmentShiftRepo
	users      userReader
	strategies *StrategyRegistry
	validator  *validator.Validate
	logger     *zap.Logger
	metrics    *MetricsService
	cache      *CacheService
	locks      *scheduleLocks
}

// NewAssignmentService wires the assignment engine.
func NewAssignmentService(
	schedules assignmentScheduleRepo,
	shifts assignmentShiftRepo,
	users userReader,
	strategies *StrategyRegistry,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics *MetricsService,
	cache *CacheService,
) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if strategies == nil {
		strategies = NewStrategyRegistry(DefaultStrategies()...)
	}
	return &AssignmentService{
		schedules:  schedules,
		shifts:     shifts,
		users:      users,
		strategies: strategies,
		validator:  validate,
		logger:     logger,
		metrics:    metrics,
		cache:      cache,
		locks:      newScheduleLocks(),
	}
}

// CreateSchedule creates a named schedule owned by the acting admin.
func (s *AssignmentService) CreateSchedule(ctx context.Context, req dto.CreateScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "admin_id and name are required")
	}

	if _, err := requireAdmin(ctx, s.users, req.AdminID); err != nil {
		return nil, err
	}

	if req.UserID != nil {
		if _, err := s.users.FindByID(ctx, *req.UserID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to fetch user")
		}
	}

	schedule := &models.Schedule{
		Name:      req.Name,
		CreatedBy: req.AdminID,
		UserID:    req.UserID,
	}
	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create schedule")
	}

	s.logger.Info("schedule created",
		zap.Int64("schedule_id", schedule.ID),
		zap.Int64("admin_id", req.AdminID))
	return schedule, nil
}

// AddShift validates and persists a single shift. When staff_id is present
// the new interval is checked against that staff member's assigned shifts
// across all schedules before committing.
func (s *AssignmentService) AddShift(ctx context.Context, req dto.AddShiftRequest) (*models.Shift, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "admin_id, schedule_id, start_time and end_time are required")
	}

	start, err := dto.ParseTime(req.StartTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	end, err := dto.ParseTime(req.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if !start.Before(end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
	}

	if _, err := requireAdmin(ctx, s.users, req.AdminID); err != nil {
		return nil, err
	}

	if _, err := s.schedules.FindByID(ctx, req.ScheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to fetch schedule")
	}

	unlock := s.locks.Lock(req.ScheduleID)
	defer unlock()

	if req.StaffID != nil {
		staff, err := s.users.FindByID(ctx, *req.StaffID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to fetch staff member")
		}
		if staff.Role != models.RoleStaff {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid staff member")
		}

		existing, err := s.shifts.ListAssignedForStaff(ctx, *req.StaffID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load existing shifts")
		}
		if HasConflict(start, end, existing) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "staff member already has a shift in that interval")
		}
	}

	shiftType := req.ShiftType
	if shiftType == "" {
		shiftType = models.ShiftTypeDay
	}
	shift := &models.Shift{
		ScheduleID: req.ScheduleID,
		StaffID:    req.StaffID,
		StartTime:  start,
		EndTime:    end,
		Type:       shiftType,
		Status:     models.ShiftStatusScheduled,
	}
	if err := s.shifts.Create(ctx, shift); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create shift")
	}

	s.cache.Invalidate(ctx, reportCacheKey(req.ScheduleID))
	return shift, nil
}

// AutoPopulate fills open shifts using the named strategy. The batch is
// best-effort: a conflicting proposal is skipped, not fatal, and assignments
// committed before a cancellation stay committed.
func (s *AssignmentService) AutoPopulate(ctx context.Context, req dto.AutoPopulateRequest) (*AutoPopulateResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "admin_id, schedule_id and strategy_name are required")
	}

	if _, err := requireAdmin(ctx, s.users, req.AdminID); err != nil {
		return nil, err
	}

	if _, err := s.schedules.FindByID(ctx, req.ScheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to fetch schedule")
	}

	strategy, err := s.strategies.Resolve(req.StrategyName)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(req.ScheduleID)
	defer unlock()

	openShifts, err := s.shifts.ListUnassigned(ctx, req.ScheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load open shifts")
	}
	pool, index, err := s.loadPool(ctx, req.ScheduleID)
	if err != nil {
		return nil, err
	}

	result := &AutoPopulateResult{}
	proposals := strategy.Assign(openShifts, pool)
	for _, proposal := range proposals {
		if ctx.Err() != nil {
			// Progress so far is durable; report how far we got.
			s.recordOutcome(req, result)
			return result, appErrors.Wrap(ctx.Err(), appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "auto-populate cancelled")
		}

		if index.HasConflict(proposal.StaffID, proposal.Shift.StartTime, proposal.Shift.EndTime) {
			result.Skipped++
			continue
		}

		ok, err := s.shifts.AssignStaff(ctx, proposal.Shift.ID, proposal.StaffID)
		if err != nil {
			s.recordOutcome(req, result)
			return result, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to commit assignment")
		}
		if !ok {
			// Shift filled since the snapshot was taken.
			result.Skipped++
			continue
		}

		committed := proposal.Shift
		committed.StaffID = &proposal.StaffID
		index.Add(proposal.StaffID, committed)
		result.Assigned++
	}

	if err := s.schedules.SetStrategyUsed(ctx, req.ScheduleID, req.StrategyName); err != nil {
		s.logger.Warn("failed to record strategy", zap.Int64("schedule_id", req.ScheduleID), zap.Error(err))
	}

	s.recordOutcome(req, result)
	s.logger.Info("schedule auto-populated",
		zap.Int64("schedule_id", req.ScheduleID),
		zap.String("strategy", req.StrategyName),
		zap.Int("assigned", result.Assigned),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// loadPool builds the strategy input: active staff in stable id order, each
// with their committed shifts inside the target schedule, plus a cross-
// schedule conflict index covering the whole pool.
func (s *AssignmentService) loadPool(ctx context.Context, scheduleID int64) ([]PoolMember, ShiftIndex, error) {
	staff, err := s.users.ListByRole(ctx, models.RoleStaff)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load staff pool")
	}

	ids := make([]int64, 0, len(staff))
	for _, member := range staff {
		ids = append(ids, member.ID)
	}
	assigned, err := s.shifts.ListAssignedForStaffIDs(ctx, ids)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load assigned shifts")
	}

	index := NewShiftIndex(assigned)
	inSchedule := make(map[int64][]models.Shift)
	for _, shift := range assigned {
		if shift.ScheduleID == scheduleID && shift.StaffID != nil {
			inSchedule[*shift.StaffID] = append(inSchedule[*shift.StaffID], shift)
		}
	}

	pool := make([]PoolMember, 0, len(staff))
	for _, member := range staff {
		pool = append(pool, PoolMember{Staff: member, Shifts: inSchedule[member.ID]})
	}
	return pool, index, nil
}

func (s *AssignmentService) recordOutcome(req dto.AutoPopulateRequest, result *AutoPopulateResult) {
	if s.metrics != nil {
		s.metrics.RecordAssignment(req.StrategyName, result.Assigned, result.Skipped)
	}
	s.cache.Invalidate(context.Background(), reportCacheKey(req.ScheduleID))
}
