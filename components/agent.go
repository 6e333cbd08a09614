package components

import (
	"github.com/pthm-cable/oids/geometry"
	"github.com/pthm-cable/oids/genetics"
)

// Agent is one organism. It is the single data component of every entity.
type Agent struct {
	ID       ID
	Type     AgentType
	Segments []Segment
	State    State
	Dna      genetics.Dna
}

// Gender returns the agent's mating type.
func (a *Agent) Gender() genetics.Gender { return a.State.Gender }

// Segment returns segment i, or nil if out of range.
func (a *Agent) Segment(i int) *Segment {
	if i < 0 || i >= len(a.Segments) {
		return nil
	}
	return &a.Segments[i]
}

// LastSegment returns the final segment, or nil for a bodiless agent.
func (a *Agent) LastSegment() *Segment {
	return a.Segment(len(a.Segments) - 1)
}

// FirstSegment returns the first segment carrying all of flags, or nil.
func (a *Agent) FirstSegment(flags Flags) *Segment {
	for i := range a.Segments {
		if a.Segments[i].Flags.Has(flags) {
			return &a.Segments[i]
		}
	}
	return nil
}

// Transform returns the transform of the reference segment.
func (a *Agent) Transform() geometry.Transform {
	if len(a.Segments) == 0 {
		return geometry.Transform{}
	}
	return a.Segments[0].Transform
}

// Transforms returns the transform of every segment in order.
func (a *Agent) Transforms() []geometry.Transform {
	out := make([]geometry.Transform, len(a.Segments))
	for i := range a.Segments {
		out[i] = a.Segments[i].Transform
	}
	return out
}
