package service

import (
	"fmt"
	"sort"

	"github.com/rosterhq/workforce-api/internal/models"
	appErrors "github.com/rosterhq/workforce-api/pkg/errors"
)

// PoolMember is one staff candidate offered to a strategy, together with the
// shifts already assigned to them in the target schedule. Strategies may only
// read this snapshot; conflict validation happens afterwards in the engine.
type PoolMember struct {
	Staff  models.User
	Shifts []models.Shift
}

// AssignedHours sums the member's committed hours in the schedule.
func (m PoolMember) AssignedHours() float64 {
	total := 0.0
	for i := range m.Shifts {
		total += m.Shifts[i].Duration().Hours()
	}
	return total
}

// Proposal pairs one open shift with the staff member a strategy picked for
// it.
type Proposal struct {
	Shift   models.Shift
	StaffID int64
}

// Strategy is a named, pure assignment algorithm: the same open shifts and
// pool must always yield the same proposal sequence. Strategies must not read
// the clock or mutate anything outside their return value.
type Strategy interface {
	Name() string
	Assign(openShifts []models.Shift, pool []PoolMember) []Proposal
}

// StrategyRegistry maps strategy names to implementations. The mapping is
// fixed at startup; a duplicate registration is a configuration mistake and
// panics rather than surfacing as a runtime error path.
type StrategyRegistry struct {
	strategies map[string]Strategy
}

// NewStrategyRegistry builds a registry from the given strategies.
func NewStrategyRegistry(strategies ...Strategy) *StrategyRegistry {
	r := &StrategyRegistry{strategies: make(map[string]Strategy, len(strategies))}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// Register adds a strategy to the registry.
func (r *StrategyRegistry) Register(s Strategy) {
	if _, exists := r.strategies[s.Name()]; exists {
		panic(fmt.Sprintf("strategy %q registered twice", s.Name()))
	}
	r.strategies[s.Name()] = s
}

// Resolve returns the named strategy or ErrUnknownStrategy.
func (r *StrategyRegistry) Resolve(name string) (Strategy, error) {
	s, ok := r.strategies[name]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownStrategy, fmt.Sprintf("unknown strategy %q", name))
	}
	return s, nil
}

// Names lists the registered strategy names sorted alphabetically.
func (r *StrategyRegistry) Names() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultStrategies returns the built-in strategy set.
func DefaultStrategies() []Strategy {
	return []Strategy{
		RoundRobinStrategy{},
		FairDistributionStrategy{},
		BalanceDayNightStrategy{},
	}
}

// RoundRobinStrategy cycles through the staff pool in pool order, one shift
// per staff per pass, wrapping around.
type RoundRobinStrategy struct{}

func (RoundRobinStrategy) Name() string { return "round_robin" }

func (RoundRobinStrategy) Assign(openShifts []models.Shift, pool []PoolMember) []Proposal {
	if len(pool) == 0 {
		return nil
	}
	proposals := make([]Proposal, 0, len(openShifts))
	for i, shift := range openShifts {
		proposals = append(proposals, Proposal{
			Shift:   shift,
			StaffID: pool[i%len(pool)].Staff.ID,
		})
	}
	return proposals
}

// FairDistributionStrategy assigns each open shift, in start-time order, to
// the staff member with the fewest assigned hours in the schedule so far.
// Ties break on ascending staff id.
type FairDistributionStrategy struct{}

func (FairDistributionStrategy) Name() string { return "fair_distribution" }

func (FairDistributionStrategy) Assign(openShifts []models.Shift, pool []PoolMember) []Proposal {
	if len(pool) == 0 {
		return nil
	}
	hours := make(map[int64]float64, len(pool))
	for _, member := range pool {
		hours[member.Staff.ID] = member.AssignedHours()
	}
	ids := sortedStaffIDs(pool)

	proposals := make([]Proposal, 0, len(openShifts))
	for _, shift := range openShifts {
		pick := ids[0]
		for _, id := range ids[1:] {
			if hours[id] < hours[pick] {
				pick = id
			}
		}
		hours[pick] += shift.Duration().Hours()
		proposals = append(proposals, Proposal{Shift: shift, StaffID: pick})
	}
	return proposals
}

// BalanceDayNightStrategy spreads night shifts across the pool by fewest
// night assignments so far, and rotates day shifts round-robin.
type BalanceDayNightStrategy struct{}

func (BalanceDayNightStrategy) Name() string { return "balance_day_night" }

func (BalanceDayNightStrategy) Assign(openShifts []models.Shift, pool []PoolMember) []Proposal {
	if len(pool) == 0 {
		return nil
	}
	nights := make(map[int64]int, len(pool))
	for _, member := range pool {
		for i := range member.Shifts {
			if member.Shifts[i].Type == models.ShiftTypeNight {
				nights[member.Staff.ID]++
			}
		}
	}
	ids := sortedStaffIDs(pool)

	proposals := make([]Proposal, 0, len(openShifts))
	dayCursor := 0
	for _, shift := range openShifts {
		var pick int64
		if shift.Type == models.ShiftTypeNight {
			pick = ids[0]
			for _, id := range ids[1:] {
				if nights[id] < nights[pick] {
					pick = id
				}
			}
			nights[pick]++
		} else {
			pick = pool[dayCursor%len(pool)].Staff.ID
			dayCursor++
		}
		proposals = append(proposals, Proposal{Shift: shift, StaffID: pick})
	}
	return proposals
}

func sortedStaffIDs(pool []PoolMember) []int64 {
	ids := make([]int64, 0, len(pool))
	for _, member := range pool {
		ids = append(ids, member.Staff.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
