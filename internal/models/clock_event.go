package models

import "time"

// ClockKind labels the direction of a clock event.
type ClockKind string

const (
	ClockKindIn  ClockKind = "in"
	ClockKindOut ClockKind = "out"
)

// ClockEvent is an append-only audit record of a staff member starting or
// ending work on a shift. Events are never mutated or deleted.
type ClockEvent struct {
	ID        int64     `db:"id" json:"id"`
	ShiftID   int64     `db:"shift_id" json:"shift_id"`
	StaffID   int64     `db:"staff_id" json:"staff_id"`
	Kind      ClockKind `db:"kind" json:"kind"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}
