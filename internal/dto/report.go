package dto

import (
	"time"

	"github.com/rosterhq/workforce-api/internal/models"
)

// ShiftView is the report projection of a shift, including the attendance
// fields the legacy report always carried.
type ShiftView struct {
	ID          int64              `json:"id"`
	ScheduleID  int64              `json:"schedule_id"`
	StaffID     *int64             `json:"staff_id"`
	StaffName   *string            `json:"staff_name"`
	StartTime   time.Time          `json:"start_time"`
	EndTime     time.Time          `json:"end_time"`
	Type        string             `json:"type"`
	Status      models.ShiftStatus `json:"status"`
	ClockIn     *time.Time         `json:"clock_in"`
	ClockOut    *time.Time         `json:"clock_out"`
	IsCompleted bool               `json:"is_completed"`
	IsLate      bool               `json:"is_late"`
}

// ScheduleReport is a point-in-time snapshot of a schedule and its shifts,
// ordered by start time then id.
type ScheduleReport struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	CreatedBy    int64       `json:"created_by"`
	CreatedAt    time.Time   `json:"created_at"`
	StrategyUsed *string     `json:"strategy_used"`
	ShiftCount   int         `json:"shift_count"`
	Shifts       []ShiftView `json:"shifts"`
}

// NewShiftView projects a shift into its report shape.
func NewShiftView(shift models.Shift, staffName *string) ShiftView {
	return ShiftView{
		ID:          shift.ID,
		ScheduleID:  shift.ScheduleID,
		StaffID:     shift.StaffID,
		StaffName:   staffName,
		StartTime:   shift.StartTime,
		EndTime:     shift.EndTime,
		Type:        shift.Type,
		Status:      shift.Status,
		ClockIn:     shift.ClockIn,
		ClockOut:    shift.ClockOut,
		IsCompleted: shift.IsCompleted(),
		IsLate:      shift.IsLate(),
	}
}
