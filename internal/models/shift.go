package models

import "time"

// ShiftStatus tracks attendance progress on a shift.
type ShiftStatus string

const (
	ShiftStatusScheduled  ShiftStatus = "SCHEDULED"
	ShiftStatusInProgress ShiftStatus = "IN_PROGRESS"
	ShiftStatusCompleted  ShiftStatus = "COMPLETED"
	ShiftStatusNoShow     ShiftStatus = "NO_SHOW"
)

// Valid returns true when the status is a supported value.
func (s ShiftStatus) Valid() bool {
	switch s {
	case ShiftStatusScheduled, ShiftStatusInProgress, ShiftStatusCompleted, ShiftStatusNoShow:
		return true
	default:
		return false
	}
}

// Shift types used by assignment strategies.
const (
	ShiftTypeDay   = "day"
	ShiftTypeNight = "night"
)

// Shift is a single staffing interval within a schedule. StaffID stays nil
// until the shift is filled manually or by auto-population.
type Shift struct {
	ID         int64       `db:"id" json:"id"`
	ScheduleID int64       `db:"schedule_id" json:"schedule_id"`
	StaffID    *int64      `db:"staff_id" json:"staff_id"`
	StartTime  time.Time   `db:"start_time" json:"start_time"`
	EndTime    time.Time   `db:"end_time" json:"end_time"`
	Type       string      `db:"type" json:"type"`
	Status     ShiftStatus `db:"status" json:"status"`
	ClockIn    *time.Time  `db:"clock_in" json:"clock_in"`
	ClockOut   *time.Time  `db:"clock_out" json:"clock_out"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}

// AssignedTo reports whether the shift is held by the given staff member.
func (s *Shift) AssignedTo(staffID int64) bool {
	return s.StaffID != nil && *s.StaffID == staffID
}

// IsCompleted reports whether both clock events have been recorded.
func (s *Shift) IsCompleted() bool {
	return s.ClockIn != nil && s.ClockOut != nil
}

// IsLate reports whether the staff member clocked in after the shift start.
func (s *Shift) IsLate() bool {
	return s.ClockIn != nil && s.ClockIn.After(s.StartTime)
}

// Duration returns the length of the shift interval.
func (s *Shift) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
