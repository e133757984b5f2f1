package dto

import (
	"fmt"
	"time"
)

// The scheduling UI predates this service; request field names below are part
// of its wire contract and must not change.

// CreateScheduleRequest creates a named schedule owned by an admin.
type CreateScheduleRequest struct {
	AdminID int64  `json:"admin_id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	UserID  *int64 `json:"user_id"`
}

// AddShiftRequest adds a single shift to a schedule. StaffID is optional; an
// open shift stays unassigned until auto-population fills it.
type AddShiftRequest struct {
	AdminID    int64  `json:"admin_id" validate:"required"`
	StaffID    *int64 `json:"staff_id"`
	ScheduleID int64  `json:"schedule_id" validate:"required"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
	ShiftType  string `json:"shift_type"`
}

// AutoPopulateRequest fills all open shifts in a schedule using a named
// assignment strategy.
type AutoPopulateRequest struct {
	AdminID      int64  `json:"admin_id" validate:"required"`
	ScheduleID   int64  `json:"schedule_id" validate:"required"`
	StrategyName string `json:"strategy_name" validate:"required"`
}

// AutoPopulateResponse summarises a best-effort batch run.
type AutoPopulateResponse struct {
	Message        string `json:"message"`
	StrategyUsed   string `json:"strategy_used"`
	ShiftsAssigned int    `json:"shifts_assigned"`
	ShiftsSkipped  int    `json:"shifts_skipped"`
}

// ClockRequest identifies the acting staff member and the shift to clock.
type ClockRequest struct {
	StaffID int64 `json:"staff_id" validate:"required"`
	ShiftID int64 `json:"shift_id" validate:"required"`
}

// ExportReportRequest queues an export of a schedule report.
type ExportReportRequest struct {
	AdminID    int64  `json:"admin_id" validate:"required"`
	ScheduleID int64  `json:"schedule_id" validate:"required"`
	Format     string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportReportResponse returns the queued export job and its download URL.
type ExportReportResponse struct {
	JobID       string    `json:"job_id"`
	File        string    `json:"file"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// timeLayouts accepted for start_time/end_time. The UI sends bare local
// timestamps (YYYY-MM-DDTHH:MM:SS); API clients may send RFC 3339.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseTime parses an ISO-8601 timestamp from the wire.
func ParseTime(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q, use ISO format (YYYY-MM-DDTHH:MM:SS)", raw)
}
