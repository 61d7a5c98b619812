package domain

// CapacityModifier is a time-bounded multiplicative adjustment to a
// group's nominal capacity. It has three lifecycle states, tracked
// through Active/JustApplied rather than an explicit enum so a zero-value
// CapacityModifier is already a valid, inactive one:
//
//	inactive --apply(f)--> active & just-applied (remaining = total)
//	  --tick--> active & !just-applied
//	  --tick x total--> inactive
//
// The one-turn "just applied" grace means the turn a modifier is applied
// on does not itself count toward its decay — see Tick.
type CapacityModifier struct {
	factor         float64
	active         bool
	justApplied    bool
	totalTurns     int
	remainingTurns int
}

// NewCapacityModifier creates an inactive modifier that, once applied,
// lasts totalTurns turns.
func NewCapacityModifier(totalTurns int) CapacityModifier {
	return CapacityModifier{factor: 1.0, totalTurns: totalTurns}
}

// Apply activates the modifier with the given factor if it is currently
// inactive, returning true. If the modifier is already active, Apply
// changes nothing and returns false — re-applying an active modifier is
// intentionally refused so that interventions are visibly costly (see
// Engine.TryApply). f must be positive; values <1 throttle, >1 boost.
func (m *CapacityModifier) Apply(f float64) bool {
	if m.active {
		return false
	}
	m.factor = f
	m.active = true
	m.justApplied = true
	m.remainingTurns = m.totalTurns
	return true
}

// Tick advances the modifier one turn. A no-op while inactive. The turn
// in which the modifier was applied clears JustApplied without
// decrementing RemainingTurns; every subsequent tick decrements
// RemainingTurns, deactivating the modifier (resetting factor to 1) once
// it reaches zero.
func (m *CapacityModifier) Tick() {
	if !m.active {
		return
	}
	if m.justApplied {
		m.justApplied = false
		return
	}
	m.remainingTurns--
	if m.remainingTurns <= 0 {
		m.active = false
		m.justApplied = false
		m.factor = 1.0
		m.remainingTurns = 0
	}
}

// Factor returns the current multiplicative factor: the applied factor
// while active, or the baseline 1.0 otherwise.
func (m CapacityModifier) Factor() float64 {
	if !m.active {
		return 1.0
	}
	return m.factor
}

// Active reports whether the modifier currently adjusts capacity.
func (m CapacityModifier) Active() bool { return m.active }

// JustApplied reports whether this turn is the modifier's application
// turn — the one turn where it does not yet count toward decay.
func (m CapacityModifier) JustApplied() bool { return m.justApplied }

// TotalTurns returns the configured lifetime of the modifier once
// applied.
func (m CapacityModifier) TotalTurns() int { return m.totalTurns }

// RemainingTurns returns the number of decrementing ticks left before the
// modifier deactivates, or 0 while inactive. While JustApplied is set,
// one further grace tick comes before those.
func (m CapacityModifier) RemainingTurns() int { return m.remainingTurns }
