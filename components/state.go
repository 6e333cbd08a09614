package components

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/oids/clock"
	"github.com/pthm-cable/oids/genetics"
)

// Status is the lifecycle phase of an agent.
type Status uint8

const (
	StatusActive Status = iota
	StatusDead
)

func (s Status) String() string {
	if s == StatusDead {
		return "dead"
	}
	return "active"
}

// State is the per-agent energy and lifecycle record.
type State struct {
	Energy    float64
	MaxEnergy float64
	Lifecycle clock.Lifecycle
	Gender    genetics.Gender

	status     Status
	growth     float64
	fertilised bool
	foreignDna genetics.Dna
	tracked    r2.Vec
	isTracked  bool
}

// NewState creates an active state.
func NewState(energy, maxEnergy float64, lifecycle clock.Lifecycle, gender genetics.Gender) State {
	return State{
		Energy:    energy,
		MaxEnergy: maxEnergy,
		Lifecycle: lifecycle,
		Gender:    gender,
	}
}

// IsActive reports whether the agent is alive.
func (s *State) IsActive() bool { return s.status == StatusActive }

// IsDead reports whether the agent has died.
func (s *State) IsDead() bool { return s.status == StatusDead }

// Status returns the lifecycle phase.
func (s *State) Status() Status { return s.status }

// Die marks the agent dead. It returns true only on the transition from alive.
func (s *State) Die() bool {
	if s.status == StatusDead {
		return false
	}
	s.status = StatusDead
	return true
}

// ResetGrowth clears the per-tick growth accumulator.
func (s *State) ResetGrowth() { s.growth = 0 }

// GrowBy records a growth factor for this tick.
func (s *State) GrowBy(factor float64) { s.growth += factor }

// Growth returns the growth recorded this tick.
func (s *State) Growth() float64 { return s.growth }

// ConsumeRatio deducts ratio of the stored energy if energy is at least
// threshold of MaxEnergy. It reports whether the deduction happened.
func (s *State) ConsumeRatio(threshold, ratio float64) bool {
	if s.Energy < threshold*s.MaxEnergy {
		return false
	}
	s.Energy -= ratio * s.Energy
	return true
}

// Consume deducts a fixed amount. Energy may go negative.
func (s *State) Consume(amount float64) { s.Energy -= amount }

// Absorb adds energy. It is not capped by MaxEnergy.
func (s *State) Absorb(amount float64) { s.Energy += amount }

// Fertilise records foreign DNA. Only the first call has an effect.
func (s *State) Fertilise(dna genetics.Dna) bool {
	if s.fertilised {
		return false
	}
	s.fertilised = true
	s.foreignDna = dna.Clone()
	return true
}

// IsFertilised reports whether foreign DNA has been recorded.
func (s *State) IsFertilised() bool { return s.fertilised }

// ForeignDna returns the recorded foreign DNA, or nil.
func (s *State) ForeignDna() genetics.Dna { return s.foreignDna }

// TrackPosition stores the position of the tracking segment.
func (s *State) TrackPosition(p r2.Vec) {
	s.tracked = p
	s.isTracked = true
}

// TrackedPosition returns the last tracked position, if any.
func (s *State) TrackedPosition() (r2.Vec, bool) {
	return s.tracked, s.isTracked
}
