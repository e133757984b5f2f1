package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterhq/workforce-api/internal/dto"
	"github.com/rosterhq/workforce-api/internal/models"
	"github.com/rosterhq/workforce-api/internal/service"
)

type fakeUserDir struct {
	users map[int64]models.User
}

func (f *fakeUserDir) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		cp := user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserDir) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			cp := user
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserDir) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, user := range f.users {
		if user.Role == role && user.Active {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeScheduleStore struct {
	mu        sync.Mutex
	nextID    int64
	schedules map[int64]*models.Schedule
}

func (f *fakeScheduleStore) Create(ctx context.Context, schedule *models.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	schedule.ID = f.nextID
	schedule.CreatedAt = time.Now().UTC()
	cp := *schedule
	f.schedules[schedule.ID] = &cp
	return nil
}

func (f *fakeScheduleStore) FindByID(ctx context.Context, id int64) (*models.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if schedule, ok := f.schedules[id]; ok {
		cp := *schedule
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeScheduleStore) SetStrategyUsed(ctx context.Context, id int64, strategy string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if schedule, ok := f.schedules[id]; ok {
		schedule.StrategyUsed = &strategy
	}
	return nil
}

type fakeShiftStore struct {
	mu     sync.Mutex
	nextID int64
	shifts map[int64]*models.Shift
}

func (f *fakeShiftStore) Create(ctx context.Context, shift *models.Shift) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	shift.ID = f.nextID
	shift.CreatedAt = time.Now().UTC()
	cp := *shift
	f.shifts[shift.ID] = &cp
	return nil
}

func (f *fakeShiftStore) FindByID(ctx context.Context, id int64) (*models.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if shift, ok := f.shifts[id]; ok {
		cp := *shift
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeShiftStore) list(filter func(*models.Shift) bool) []models.Shift {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Shift, 0, len(f.shifts))
	for _, shift := range f.shifts {
		if filter(shift) {
			out = append(out, *shift)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

func (f *fakeShiftStore) ListBySchedule(ctx context.Context, scheduleID int64) ([]models.Shift, error) {
	return f.list(func(s *models.Shift) bool { return s.ScheduleID == scheduleID }), nil
}

func (f *fakeShiftStore) ListUnassigned(ctx context.Context, scheduleID int64) ([]models.Shift, error) {
	return f.list(func(s *models.Shift) bool { return s.ScheduleID == scheduleID && s.StaffID == nil }), nil
}

func (f *fakeShiftStore) ListAssignedForStaff(ctx context.Context, staffID int64) ([]models.Shift, error) {
	return f.list(func(s *models.Shift) bool { return s.AssignedTo(staffID) }), nil
}

func (f *fakeShiftStore) ListAssignedForStaffIDs(ctx context.Context, staffIDs []int64) ([]models.Shift, error) {
	wanted := make(map[int64]struct{}, len(staffIDs))
	for _, id := range staffIDs {
		wanted[id] = struct{}{}
	}
	return f.list(func(s *models.Shift) bool {
		if s.StaffID == nil {
			return false
		}
		_, ok := wanted[*s.StaffID]
		return ok
	}), nil
}

func (f *fakeShiftStore) ListAll(ctx context.Context) ([]models.Shift, error) {
	return f.list(func(*models.Shift) bool { return true }), nil
}

func (f *fakeShiftStore) AssignStaff(ctx context.Context, shiftID, staffID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	shift, ok := f.shifts[shiftID]
	if !ok || shift.StaffID != nil {
		return false, nil
	}
	shift.StaffID = &staffID
	return true, nil
}

func (f *fakeShiftStore) ClockIn(ctx context.Context, shiftID int64, at time.Time) (bool, error) {
	return f.transition(shiftID, models.ShiftStatusScheduled, models.ShiftStatusInProgress, &at, nil)
}

func (f *fakeShiftStore) ClockOut(ctx context.Context, shiftID int64, at time.Time) (bool, error) {
	return f.transition(shiftID, models.ShiftStatusInProgress, models.ShiftStatusCompleted, nil, &at)
}

func (f *fakeShiftStore) TransitionStatus(ctx context.Context, shiftID int64, from, to models.ShiftStatus) (bool, error) {
	return f.transition(shiftID, from, to, nil, nil)
}

func (f *fakeShiftStore) transition(shiftID int64, from, to models.ShiftStatus, clockIn, clockOut *time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	shift, ok := f.shifts[shiftID]
	if !ok || shift.Status != from {
		return false, nil
	}
	shift.Status = to
	if clockIn != nil {
		shift.ClockIn = clockIn
	}
	if clockOut != nil {
		shift.ClockOut = clockOut
	}
	return true, nil
}

type fakeEventLog struct {
	mu     sync.Mutex
	events []models.ClockEvent
}

func (f *fakeEventLog) Append(ctx context.Context, event *models.ClockEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event.ID = int64(len(f.events) + 1)
	f.events = append(f.events, *event)
	return nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &fakeUserDir{users: map[int64]models.User{
		1:  {ID: 1, Username: "boss", Role: models.RoleAdmin, Active: true},
		10: {ID: 10, Username: "ana", Role: models.RoleStaff, Active: true},
		11: {ID: 11, Username: "ben", Role: models.RoleStaff, Active: true},
	}}
	schedules := &fakeScheduleStore{schedules: make(map[int64]*models.Schedule)}
	shifts := &fakeShiftStore{shifts: make(map[int64]*models.Shift)}
	events := &fakeEventLog{}

	assignments := service.NewAssignmentService(schedules, shifts, users, nil, nil, nil, nil, nil)
	attendance := service.NewAttendanceService(shifts, events, users, nil, nil)
	reports := service.NewReportService(schedules, shifts, users, nil, nil)

	scheduleHandler := NewScheduleHandler(assignments, reports, nil)
	staffHandler := NewStaffHandler(reports, attendance)

	r := gin.New()
	r.POST("/createSchedule", scheduleHandler.CreateSchedule)
	r.POST("/addShift", scheduleHandler.AddShift)
	r.POST("/autoPopulateSchedule", scheduleHandler.AutoPopulate)
	r.GET("/scheduleReport", scheduleHandler.ScheduleReport)
	r.GET("/allshifts", staffHandler.AllShifts)
	r.GET("/staffshift", staffHandler.StaffShift)
	r.POST("/staff/clockIn", staffHandler.ClockIn)
	r.POST("/staff/clockOut", staffHandler.ClockOut)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestCreateScheduleEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/createSchedule", dto.CreateScheduleRequest{AdminID: 1, Name: "week 10"})
	require.Equal(t, http.StatusOK, w.Code)

	var schedule models.Schedule
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &schedule))
	assert.Equal(t, "week 10", schedule.Name)
	assert.Equal(t, int64(1), schedule.CreatedBy)
}

func TestCreateScheduleEndpointNonAdmin(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/createSchedule", dto.CreateScheduleRequest{AdminID: 10, Name: "week 10"})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "only admins can perform this action", errorMessage(t, w))
}

func TestAddShiftEndpointConflict(t *testing.T) {
	r := newTestRouter(t)
	staff := int64(10)

	w := doJSON(t, r, http.MethodPost, "/createSchedule", dto.CreateScheduleRequest{AdminID: 1, Name: "week 10"})
	require.Equal(t, http.StatusOK, w.Code)

	first := dto.AddShiftRequest{
		AdminID: 1, StaffID: &staff, ScheduleID: 1,
		StartTime: "2026-03-02T09:00", EndTime: "2026-03-02T17:00",
	}
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/addShift", first).Code)

	overlapping := first
	overlapping.StartTime = "2026-03-02T15:00"
	overlapping.EndTime = "2026-03-02T20:00"
	w = doJSON(t, r, http.MethodPost, "/addShift", overlapping)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.NotEmpty(t, errorMessage(t, w))
}

func TestAutoPopulateEndpoint(t *testing.T) {
	r := newTestRouter(t)

	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/createSchedule", dto.CreateScheduleRequest{AdminID: 1, Name: "week 10"}).Code)
	for day := 2; day <= 4; day++ {
		shift := dto.AddShiftRequest{
			AdminID: 1, ScheduleID: 1,
			StartTime: fmt.Sprintf("2026-03-%02dT09:00", day),
			EndTime:   fmt.Sprintf("2026-03-%02dT17:00", day),
		}
		require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/addShift", shift).Code)
	}

	w := doJSON(t, r, http.MethodPost, "/autoPopulateSchedule", dto.AutoPopulateRequest{
		AdminID: 1, ScheduleID: 1, StrategyName: "round_robin",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.AutoPopulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Schedule auto-populated successfully", resp.Message)
	assert.Equal(t, "round_robin", resp.StrategyUsed)
	assert.Equal(t, 3, resp.ShiftsAssigned)
	assert.Equal(t, 0, resp.ShiftsSkipped)
}

func TestAutoPopulateEndpointUnknownStrategy(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/createSchedule", dto.CreateScheduleRequest{AdminID: 1, Name: "week 10"}).Code)

	w := doJSON(t, r, http.MethodPost, "/autoPopulateSchedule", dto.AutoPopulateRequest{
		AdminID: 1, ScheduleID: 1, StrategyName: "random",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleReportEndpoint(t *testing.T) {
	r := newTestRouter(t)
	staff := int64(10)

	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/createSchedule", dto.CreateScheduleRequest{AdminID: 1, Name: "week 10"}).Code)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/addShift", dto.AddShiftRequest{
		AdminID: 1, StaffID: &staff, ScheduleID: 1,
		StartTime: "2026-03-02T09:00", EndTime: "2026-03-02T17:00",
	}).Code)

	w := doJSON(t, r, http.MethodGet, "/scheduleReport?admin_id=1&schedule_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report dto.ScheduleReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.ShiftCount)
	require.Len(t, report.Shifts, 1)
	require.NotNil(t, report.Shifts[0].StaffName)
	assert.Equal(t, "ana", *report.Shifts[0].StaffName)

	w = doJSON(t, r, http.MethodGet, "/scheduleReport?admin_id=1&schedule_id=9", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/scheduleReport?admin_id=1", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClockInAndOutEndpoints(t *testing.T) {
	r := newTestRouter(t)
	staff := int64(10)

	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/createSchedule", dto.CreateScheduleRequest{AdminID: 1, Name: "week 10"}).Code)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/addShift", dto.AddShiftRequest{
		AdminID: 1, StaffID: &staff, ScheduleID: 1,
		StartTime: "2026-03-02T09:00", EndTime: "2026-03-02T17:00",
	}).Code)

	// Clock out before clock in fails the state machine.
	w := doJSON(t, r, http.MethodPost, "/staff/clockOut", dto.ClockRequest{StaffID: 10, ShiftID: 1})
	require.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/staff/clockIn", dto.ClockRequest{StaffID: 10, ShiftID: 1})
	require.Equal(t, http.StatusOK, w.Code)
	var shift models.Shift
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shift))
	assert.Equal(t, models.ShiftStatusInProgress, shift.Status)

	// Not the assignee.
	w = doJSON(t, r, http.MethodPost, "/staff/clockOut", dto.ClockRequest{StaffID: 11, ShiftID: 1})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, "/staff/clockOut", dto.ClockRequest{StaffID: 10, ShiftID: 1})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shift))
	assert.Equal(t, models.ShiftStatusCompleted, shift.Status)
}

func TestAllShiftsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	staff := int64(10)

	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/createSchedule", dto.CreateScheduleRequest{AdminID: 1, Name: "week 10"}).Code)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/createSchedule", dto.CreateScheduleRequest{AdminID: 1, Name: "week 11"}).Code)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/addShift", dto.AddShiftRequest{
		AdminID: 1, StaffID: &staff, ScheduleID: 2,
		StartTime: "2026-03-03T09:00", EndTime: "2026-03-03T17:00",
	}).Code)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/addShift", dto.AddShiftRequest{
		AdminID: 1, ScheduleID: 1,
		StartTime: "2026-03-02T09:00", EndTime: "2026-03-02T17:00",
	}).Code)

	w := doJSON(t, r, http.MethodGet, "/allshifts?staff_id=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var roster []dto.ShiftView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &roster))
	require.Len(t, roster, 2)
	// Every shift, earliest first, regardless of schedule.
	assert.Equal(t, int64(1), roster[0].ScheduleID)
	assert.Equal(t, int64(2), roster[1].ScheduleID)

	// Admins do not use the staff roster view.
	w = doJSON(t, r, http.MethodGet, "/allshifts?staff_id=1", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestStaffShiftEndpoint(t *testing.T) {
	r := newTestRouter(t)
	staff := int64(10)

	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/createSchedule", dto.CreateScheduleRequest{AdminID: 1, Name: "week 10"}).Code)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/addShift", dto.AddShiftRequest{
		AdminID: 1, StaffID: &staff, ScheduleID: 1,
		StartTime: "2026-03-02T09:00", EndTime: "2026-03-02T17:00",
	}).Code)

	w := doJSON(t, r, http.MethodGet, "/staffshift?staff_id=10&shift_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Another staff member cannot read it.
	w = doJSON(t, r, http.MethodGet, "/staffshift?staff_id=11&shift_id=1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
