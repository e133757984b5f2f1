package service

import "sync"

// scheduleLocks hands out one mutex per schedule id so mutations within a
// schedule are serialized while different schedules proceed in parallel.
// Entries are never released; the set is bounded by the number of schedules.
type scheduleLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newScheduleLocks() *scheduleLocks {
	return &scheduleLocks{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the mutation slot for a schedule and returns its release
// function.
func (l *scheduleLocks) Lock(scheduleID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[scheduleID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[scheduleID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
