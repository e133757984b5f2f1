package service

import (
	"time"

	"github.com/rosterhq/workforce-api/internal/models"
)

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. A shift ending exactly when another starts does
// not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// HasConflict reports whether the candidate interval intersects any of the
// given shifts. Callers pass the existing assigned shifts of one staff member.
func HasConflict(start, end time.Time, existing []models.Shift) bool {
	for i := range existing {
		if Overlaps(start, end, existing[i].StartTime, existing[i].EndTime) {
			return true
		}
	}
	return false
}

// ShiftIndex groups assigned shifts by staff id so a batch of proposals can be
// validated without rescanning, and extended as acceptances commit.
type ShiftIndex map[int64][]models.Shift

// NewShiftIndex builds an index from assigned shifts; unassigned entries are
// ignored.
func NewShiftIndex(shifts []models.Shift) ShiftIndex {
	idx := make(ShiftIndex)
	for _, shift := range shifts {
		if shift.StaffID != nil {
			idx[*shift.StaffID] = append(idx[*shift.StaffID], shift)
		}
	}
	return idx
}

// HasConflict checks the candidate interval against the staff member's
// indexed shifts.
func (idx ShiftIndex) HasConflict(staffID int64, start, end time.Time) bool {
	return HasConflict(start, end, idx[staffID])
}

// Add records an accepted assignment so later proposals in the same batch see
// it.
func (idx ShiftIndex) Add(staffID int64, shift models.Shift) {
	idx[staffID] = append(idx[staffID], shift)
}
