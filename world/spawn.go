package world

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/oids/clock"
	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/genetics"
	"github.com/pthm-cable/oids/geometry"
)

// NewResource creates a single-segment resource at t.
func (w *World) NewResource(t geometry.Transform, dna genetics.Dna) components.ID {
	return w.add(w.simpleAgent(components.TypeResource, w.cfg.Resource, t, dna))
}

// NewSpore creates a spore at t carrying dna.
func (w *World) NewSpore(t geometry.Transform, dna genetics.Dna) components.ID {
	return w.add(w.simpleAgent(components.TypeSpore, w.cfg.Spore, t, dna))
}

// HatchSpore creates a minion from a hatched spore and remembers its genome.
func (w *World) HatchSpore(t geometry.Transform, dna genetics.Dna) components.ID {
	w.minionPool.Add(dna)
	return w.NewMinion(t, dna)
}

// DecayToResource turns one corpse segment into a resource.
func (w *World) DecayToResource(t geometry.Transform, dna genetics.Dna) components.ID {
	return w.NewResource(t, dna)
}

// NewMinion creates a minion whose body is decoded from dna.
func (w *World) NewMinion(t geometry.Transform, dna genetics.Dna) components.ID {
	mc := w.cfg.Minion
	a := components.Agent{
		Type:     components.TypeMinion,
		Segments: minionBody(mc, t, dna),
		State:    components.NewState(mc.Energy, mc.MaxEnergy, clock.Forever(), genetics.GenderOf(dna)),
		Dna:      dna.Clone(),
	}
	return w.add(a)
}

func (w *World) simpleAgent(typ components.AgentType, ac config.AgentConfig, t geometry.Transform, dna genetics.Dna) components.Agent {
	charge := components.NewCharge(ac.Charge, ac.Charge*0.5, ac.ChargeDecayTime)
	return components.Agent{
		Type: typ,
		Segments: []components.Segment{
			components.NewSegment(t, ac.Radius, charge, ac.Maturity, components.FlagHead|components.FlagTail),
		},
		State: components.NewState(ac.Energy, ac.MaxEnergy,
			clock.NewLifecycle(w.timer, clock.Seconds(ac.Lifespan)), genetics.GenderOf(dna)),
		Dna: dna.Clone(),
	}
}

// minionBody lays segments out behind the head along the facing direction.
// Segment count and radii come from the genome; spacing scales with maturity.
func minionBody(mc config.MinionConfig, t geometry.Transform, dna genetics.Dna) []components.Segment {
	g := genetics.NewGenome(dna)
	n := g.NextInteger(mc.MinSegments, mc.MaxSegments)
	back := r2.Scale(-1, t.Heading())
	charge := components.NewCharge(mc.Charge, mc.Charge*0.5, mc.ChargeDecayTime)

	segments := make([]components.Segment, 0, n)
	pos := t.Position
	var prevRadius float64
	for i := 0; i < n; i++ {
		radius := mc.SegmentRadius * g.NextFloat(0.5, 1.5)
		if i > 0 {
			pos = r2.Add(pos, r2.Scale((prevRadius+radius)*mc.Maturity, back))
		}
		var flags components.Flags
		if i == 0 {
			flags |= components.FlagHead | components.FlagMouth
		}
		if i == n-1 {
			flags |= components.FlagTail
		}
		st := geometry.Transform{Position: pos, Angle: t.Angle}
		segments = append(segments, components.NewSegment(st, radius, charge, mc.Maturity, flags))
		prevRadius = radius
	}
	return segments
}
