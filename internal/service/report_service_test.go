package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterhq/workforce-api/internal/models"
	appErrors "github.com/rosterhq/workforce-api/pkg/errors"
)

func (m *memShiftStore) FindByID(ctx context.Context, id int64) (*models.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if shift, ok := m.shifts[id]; ok {
		cp := *shift
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memShiftStore) ListAll(ctx context.Context) ([]models.Shift, error) {
	return m.list(func(*models.Shift) bool { return true }), nil
}

func (m *memShiftStore) put(shift models.Shift) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if shift.ID == 0 {
		m.nextID++
		shift.ID = m.nextID
	}
	cp := shift
	m.shifts[shift.ID] = &cp
}

type memCacheRepo struct {
	entries map[string][]byte
}

func newMemCacheRepo() *memCacheRepo {
	return &memCacheRepo{entries: make(map[string][]byte)}
}

func (m *memCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memCacheRepo) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func newReportFixture(cache *CacheService) (*ReportService, *memScheduleStore, *memShiftStore) {
	schedules := newMemScheduleStore()
	shifts := newMemShiftStore()
	svc := NewReportService(schedules, shifts, defaultUsers(), cache, nil)
	return svc, schedules, shifts
}

func seedReportData(t *testing.T, schedules *memScheduleStore, shifts *memShiftStore) *models.Schedule {
	t.Helper()
	schedule := &models.Schedule{Name: "week 10", CreatedBy: 1}
	require.NoError(t, schedules.Create(context.Background(), schedule))

	ana := int64(10)
	lateIn := ts(9).Add(15 * time.Minute)
	out := ts(17)
	shifts.put(models.Shift{
		ScheduleID: schedule.ID, StaffID: &ana,
		StartTime: ts(9), EndTime: ts(17),
		Type: models.ShiftTypeDay, Status: models.ShiftStatusCompleted,
		ClockIn: &lateIn, ClockOut: &out,
	})
	shifts.put(models.Shift{
		ScheduleID: schedule.ID,
		StartTime:  ts(18), EndTime: ts(22),
		Type: models.ShiftTypeNight, Status: models.ShiftStatusScheduled,
	})
	return schedule
}

func TestBuildReport(t *testing.T) {
	svc, schedules, shifts := newReportFixture(nil)
	schedule := seedReportData(t, schedules, shifts)

	report, err := svc.BuildReport(context.Background(), 1, schedule.ID)
	require.NoError(t, err)

	assert.Equal(t, schedule.ID, report.ID)
	assert.Equal(t, "week 10", report.Name)
	assert.Equal(t, 2, report.ShiftCount)
	require.Len(t, report.Shifts, 2)

	first := report.Shifts[0]
	require.NotNil(t, first.StaffName)
	assert.Equal(t, "ana", *first.StaffName)
	assert.True(t, first.IsLate)
	assert.True(t, first.IsCompleted)

	second := report.Shifts[1]
	assert.Nil(t, second.StaffID)
	assert.False(t, second.IsCompleted)
}

func TestBuildReportRequiresAdmin(t *testing.T) {
	svc, schedules, shifts := newReportFixture(nil)
	schedule := seedReportData(t, schedules, shifts)

	_, err := svc.BuildReport(context.Background(), 10, schedule.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestBuildReportUnknownSchedule(t *testing.T) {
	svc, _, _ := newReportFixture(nil)

	_, err := svc.BuildReport(context.Background(), 1, 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBuildReportServesCachedSnapshot(t *testing.T) {
	cache := NewCacheService(newMemCacheRepo(), nil, time.Minute, nil, true)
	svc, schedules, shifts := newReportFixture(cache)
	schedule := seedReportData(t, schedules, shifts)

	first, err := svc.BuildReport(context.Background(), 1, schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, first.ShiftCount)

	// A write after the snapshot does not show until the entry expires or is
	// invalidated.
	shifts.put(models.Shift{ScheduleID: schedule.ID, StartTime: ts(7), EndTime: ts(8), Type: models.ShiftTypeDay, Status: models.ShiftStatusScheduled})

	second, err := svc.BuildReport(context.Background(), 1, schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.ShiftCount)

	cache.Invalidate(context.Background(), reportCacheKey(schedule.ID))
	third, err := svc.BuildReport(context.Background(), 1, schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, third.ShiftCount)
}

func TestCombinedRoster(t *testing.T) {
	svc, schedules, shifts := newReportFixture(nil)
	seedReportData(t, schedules, shifts)

	other := &models.Schedule{Name: "week 11", CreatedBy: 1}
	require.NoError(t, schedules.Create(context.Background(), other))
	shifts.put(models.Shift{ScheduleID: other.ID, StartTime: ts(7), EndTime: ts(8), Type: models.ShiftTypeDay, Status: models.ShiftStatusScheduled})

	roster, err := svc.CombinedRoster(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, roster, 3)
	// All shifts across schedules, earliest first.
	assert.Equal(t, other.ID, roster[0].ScheduleID)
	assert.True(t, roster[0].StartTime.Before(roster[1].StartTime))
	assert.True(t, roster[1].StartTime.Before(roster[2].StartTime))
}

func TestCombinedRosterRequiresStaff(t *testing.T) {
	svc, _, _ := newReportFixture(nil)

	_, err := svc.CombinedRoster(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestStaffShift(t *testing.T) {
	svc, schedules, shifts := newReportFixture(nil)
	seedReportData(t, schedules, shifts)

	view, err := svc.StaffShift(context.Background(), 10, 1)
	require.NoError(t, err)
	require.NotNil(t, view.StaffName)
	assert.Equal(t, "ana", *view.StaffName)
}

func TestStaffShiftNotOwned(t *testing.T) {
	svc, schedules, shifts := newReportFixture(nil)
	seedReportData(t, schedules, shifts)

	// Shift 2 is unassigned; ben owns nothing.
	_, err := svc.StaffShift(context.Background(), 11, 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.StaffShift(context.Background(), 10, 2)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.StaffShift(context.Background(), 10, 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
