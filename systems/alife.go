package systems

import (
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/oids/bus"
	"github.com/pthm-cable/oids/clock"
	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/genetics"
	"github.com/pthm-cable/oids/geometry"
	"github.com/pthm-cable/oids/world"
)

// touch is an opposite-gender contact recorded for a spore.
type touch struct {
	minion components.ID
	dna    genetics.Dna
}

// spawn is a creation request carried out after all updates.
type spawn struct {
	transform geometry.Transform
	dna       genetics.Dna
}

// corpse is a dead minion. Transforms is empty when nothing decays.
type corpse struct {
	transforms []geometry.Transform
	dna        genetics.Dna
}

// AlifeReport summarises the last exported tick.
type AlifeReport struct {
	Eaten      int
	Touched    int
	Spawned    int
	Hatched    int
	Died       int
	Decayed    int
	Fertilised int

	ResourcesDied int
}

// AlifeSystem advances the energy economy, growth, reproduction and
// inheritance of every agent once per tick.
//
// Each tick runs Import, Update and Export in that order. Import only reads
// the world; Export is the only phase that mutates agents or posts alerts.
type AlifeSystem struct {
	dt     clock.Seconds
	timer  *clock.SimulationTimer
	rng    *rand.Rand
	params config.AlifeConfig

	source  []world.Feeder
	eaten   map[components.ID]components.State
	touched map[components.ID]touch

	tracking   r2.Vec
	isTracking bool
	report     AlifeReport
}

// NewAlifeSystem creates the engine. timer must be the one the world uses
// for agent deadlines; seed drives crossover and mutation.
func NewAlifeSystem(timer *clock.SimulationTimer, seed int64) *AlifeSystem {
	cfg := config.Cfg()
	return &AlifeSystem{
		dt:      cfg.Derived.DT,
		timer:   timer,
		rng:     rand.New(rand.NewSource(seed)),
		params:  cfg.Alife,
		eaten:   make(map[components.ID]components.State),
		touched: make(map[components.ID]touch),
	}
}

// Import rebuilds the contact maps from the segments' LastTouched fields.
func (s *AlifeSystem) Import(w *world.World) {
	s.source = append(s.source[:0], w.Feeders()...)
	s.eaten = findEatenResources(w)
	s.touched = findTouchedSpores(w)
}

// Update advances the simulation clock by dt.
func (s *AlifeSystem) Update(dt clock.Seconds) {
	s.dt = dt
	s.timer.Tick(dt)
}

// Export applies the update rules and posts the resulting alerts.
func (s *AlifeSystem) Export(w *world.World, outbox bus.Outbox) {
	s.report = AlifeReport{Eaten: len(s.eaten), Touched: len(s.touched)}

	s.updateResources(w)
	spores, corpses := s.updateMinions(w)
	hatch, fertilised := s.updateSpores(w)

	for _, sp := range spores {
		outbox.Post(bus.AlertNewSpore)
		w.NewSpore(sp.transform, sp.dna)
	}

	for _, h := range hatch {
		outbox.Post(bus.AlertNewMinion)
		w.HatchSpore(h.transform, h.dna)
	}

	for _, c := range corpses {
		outbox.Post(bus.AlertDieMinion)
		for _, t := range c.transforms {
			w.DecayToResource(t, c.dna)
		}
		s.report.Decayed += len(c.transforms)
	}

	for i := 0; i < fertilised; i++ {
		outbox.Post(bus.AlertDieMinion)
	}

	s.report.Spawned = len(spores)
	s.report.Hatched = len(hatch)
	s.report.Died = len(corpses)
	s.report.Fertilised = fertilised
}

// Report returns counters for the last Export.
func (s *AlifeSystem) Report() AlifeReport { return s.report }

// Tracking returns the last position of a tracker segment, if any.
func (s *AlifeSystem) Tracking() (r2.Vec, bool) { return s.tracking, s.isTracking }

// Sources returns the feeders seen by the last Import.
func (s *AlifeSystem) Sources() []world.Feeder { return s.source }

// findEatenResources maps each resource touched by an active minion's mouth
// to a snapshot of its state. Later mouths overwrite earlier ones.
func findEatenResources(w *world.World) map[components.ID]components.State {
	eaten := make(map[components.ID]components.State)
	w.Each(components.TypeMinion, func(a *components.Agent) {
		if !a.State.IsActive() {
			return
		}
		for i := range a.Segments {
			seg := &a.Segments[i]
			if !seg.Flags.Has(components.FlagMouth) || seg.LastTouched == components.NoID {
				continue
			}
			if r := w.Lookup(components.TypeResource, seg.LastTouched); r != nil {
				eaten[r.ID] = r.State
			}
		}
	})
	return eaten
}

// findTouchedSpores maps each active, unfertilised spore to the DNA of the
// first opposite-gender minion found touching it.
func findTouchedSpores(w *world.World) map[components.ID]touch {
	touched := make(map[components.ID]touch)
	w.Each(components.TypeSpore, func(sp *components.Agent) {
		if !sp.State.IsActive() || sp.State.IsFertilised() {
			return
		}
		for i := range sp.Segments {
			id := sp.Segments[i].LastTouched
			if id == components.NoID {
				continue
			}
			m := w.Lookup(components.TypeMinion, id)
			if m == nil || m.Gender() == sp.Gender() {
				continue
			}
			if _, ok := touched[sp.ID]; !ok {
				touched[sp.ID] = touch{minion: m.ID, dna: m.Dna}
			}
		}
	})
	return touched
}

func (s *AlifeSystem) updateResources(w *world.World) {
	w.Each(components.TypeResource, func(a *components.Agent) {
		_, eaten := s.eaten[a.ID]
		if eaten || a.State.Energy <= 0 || a.State.Lifecycle.IsExpired(s.timer) {
			if a.State.Die() {
				s.report.ResourcesDied++
			}
			return
		}
		if !a.State.IsActive() {
			return
		}
		for i := range a.Segments {
			a.Segments[i].Update(s.dt)
		}
	})
}

func (s *AlifeSystem) updateMinions(w *world.World) ([]spawn, []corpse) {
	var spawns []spawn
	var corpses []corpse
	extent := w.Extent()
	r := s.params.GrowthRatio
	s.isTracking = false

	w.Each(components.TypeMinion, func(a *components.Agent) {
		if !a.State.IsActive() || len(a.Segments) == 0 {
			return
		}

		a.State.ResetGrowth()
		if a.Segments[0].Maturity() < 1 {
			if a.State.ConsumeRatio(1-r, r) {
				growth := 1 + r
				a.State.GrowBy(growth)
				zero := a.Segments[0].Transform.Position
				for i := range a.Segments {
					seg := &a.Segments[i]
					seg.SetMaturity(seg.Maturity() * growth)
					seg.Transform.Position = geometry.ScaleAbout(seg.Transform.Position, zero, growth)
				}
			}
		} else if a.State.ConsumeRatio(s.params.SpawnThreshold, s.params.SpawnRatio) {
			spawns = append(spawns, spawn{
				transform: a.LastSegment().Transform,
				dna:       a.Dna.Clone(),
			})
		}

		outside := false
		for i := range a.Segments {
			seg := &a.Segments[i]
			if !extent.Contains(seg.Transform.Position) {
				outside = true
			}
			if seg.Flags.Has(components.FlagMouth) && seg.LastTouched != components.NoID {
				if eaten, ok := s.eaten[seg.LastTouched]; ok {
					a.State.Absorb(eaten.Energy)
				}
			}
			a.State.Consume(s.dt.Get() * seg.Charge.Value * seg.GrowingRadius())
			seg.Update(s.dt)
		}

		if a.State.Energy < s.params.DeathEnergy {
			if a.State.Die() {
				corpses = append(corpses, corpse{transforms: a.Transforms(), dna: a.Dna.Clone()})
			}
		} else if outside {
			if a.State.Die() {
				corpses = append(corpses, corpse{dna: a.Dna.Clone()})
			}
		}

		if seg := a.FirstSegment(components.FlagTracker); seg != nil {
			a.State.TrackPosition(seg.Transform.Position)
			s.tracking = seg.Transform.Position
			s.isTracking = true
		}
	})
	return spawns, corpses
}

func (s *AlifeSystem) updateSpores(w *world.World) ([]spawn, int) {
	var hatch []spawn
	fertilised := 0

	w.Each(components.TypeSpore, func(sp *components.Agent) {
		if sp.State.Lifecycle.IsExpired(s.timer) {
			if sp.State.Die() {
				hatch = append(hatch, spawn{
					transform: sp.Transform(),
					dna:       s.crossover(sp.Dna, sp.State.ForeignDna()),
				})
			}
			return
		}
		if !sp.State.IsActive() {
			return
		}

		if t, ok := s.touched[sp.ID]; ok && sp.State.Fertilise(t.dna) {
			fertilised++
			slog.Debug("spore_fertilised",
				"spore", sp.ID,
				"minion", t.minion,
				"dna", t.dna.String(),
			)
		}
		for i := range sp.Segments {
			sp.Segments[i].Update(s.dt)
		}
	})
	return hatch, fertilised
}

// crossover produces the hatch genome. Without foreign DNA it is a copy of own.
func (s *AlifeSystem) crossover(own, foreign genetics.Dna) genetics.Dna {
	dna := genetics.Crossover(s.rng.Int63(), own, foreign)
	if s.params.MutationRate > 0 {
		dna = genetics.Mutate(s.rng, dna, s.params.MutationRate)
	}
	return dna
}
