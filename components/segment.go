package components

import (
	"math"

	"github.com/pthm-cable/oids/clock"
	"github.com/pthm-cable/oids/geometry"
)

// Charge is a segment-local energy buffer that relaxes toward Rest.
type Charge struct {
	Value     float64
	Rest      float64
	DecayTime float64 // seconds to decay by 1/e
}

// NewCharge creates a charge starting at value and relaxing to rest.
func NewCharge(value, rest, decayTime float64) Charge {
	return Charge{Value: value, Rest: rest, DecayTime: decayTime}
}

// Update decays the charge by dt.
func (c *Charge) Update(dt clock.Seconds) {
	if c.DecayTime <= 0 {
		c.Value = c.Rest
		return
	}
	k := math.Exp(-dt.Get() / c.DecayTime)
	c.Value = c.Rest + (c.Value-c.Rest)*k
}

// Segment is a rigid body part with its own transform and charge.
type Segment struct {
	Transform   geometry.Transform
	Radius      float64
	Charge      Charge
	Flags       Flags
	LastTouched ID // written by contact detection; may be stale

	maturity float64
}

// NewSegment creates a segment at the given maturity.
func NewSegment(t geometry.Transform, radius float64, charge Charge, maturity float64, flags Flags) Segment {
	s := Segment{Transform: t, Radius: radius, Charge: charge, Flags: flags}
	s.SetMaturity(maturity)
	return s
}

// Maturity returns growth progress in [0, 1].
func (s *Segment) Maturity() float64 { return s.maturity }

// SetMaturity sets maturity, clamped to [0, 1].
func (s *Segment) SetMaturity(m float64) {
	s.maturity = math.Max(0, math.Min(1, m))
}

// GrowingRadius is the radius scaled by maturity.
func (s *Segment) GrowingRadius() float64 {
	return s.Radius * s.maturity
}

// Update advances the segment's charge decay.
func (s *Segment) Update(dt clock.Seconds) {
	s.Charge.Update(dt)
}
