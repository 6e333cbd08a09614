package game

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/geometry"
)

// spawnMargin keeps seeded agents away from the arena edge so that minion
// bodies, which trail behind the head, start fully inside.
const spawnMargin = 0.8

// seedPopulation creates the starting resources and minions.
func (s *Simulation) seedPopulation() {
	pop := s.cfg.Population
	for i := 0; i < pop.InitialResources; i++ {
		s.world.NewResource(s.randomTransform(), s.world.ResourcePool().Next(s.rng))
	}
	s.spawnMinions(pop.InitialMinions)
	s.ensureTracked()
}

// spawnMinions creates n minions from the gene pool.
func (s *Simulation) spawnMinions(n int) {
	for i := 0; i < n; i++ {
		s.world.NewMinion(s.randomTransform(), s.world.MinionPool().Next(s.rng))
	}
}

// randomTransform returns a random pose inside the shrunken arena.
func (s *Simulation) randomTransform() geometry.Transform {
	ext := s.world.Extent()
	c := ext.Center()
	hw := ext.Width() / 2 * spawnMargin
	hh := ext.Height() / 2 * spawnMargin
	return geometry.Transform{
		Position: r2.Vec{
			X: c.X + (s.rng.Float64()*2-1)*hw,
			Y: c.Y + (s.rng.Float64()*2-1)*hh,
		},
		Angle: s.rng.Float64() * 2 * math.Pi,
	}
}

// cleanup removes dead agents, reseeds an extinct population and keeps a
// minion tracked.
func (s *Simulation) cleanup() {
	for _, r := range s.world.Cleanup() {
		s.collector.RecordRemoval(r.Type)
	}
	s.reseedIfNeeded()
	s.ensureTracked()
}

// reseedIfNeeded tops minions up to the configured minimum from the gene pool.
func (s *Simulation) reseedIfNeeded() {
	alive := len(s.world.Energies(components.TypeMinion))
	missing := s.cfg.Population.MinMinions - alive
	if missing <= 0 {
		return
	}
	s.spawnMinions(missing)
	slog.Info("minions_reseeded",
		"count", missing,
		"tick", s.timer.Ticks(),
		"gene_pool", s.world.MinionPool().Len(),
	)
}

// ensureTracked moves the tracker to the oldest living minion when the
// tracked one is gone.
func (s *Simulation) ensureTracked() {
	if s.world.Tracked() != components.NoID {
		return
	}
	candidate := components.NoID
	s.world.Each(components.TypeMinion, func(a *components.Agent) {
		if a.State.IsActive() && (candidate == components.NoID || a.ID < candidate) {
			candidate = a.ID
		}
	})
	if candidate != components.NoID {
		s.world.SetTracked(candidate)
	}
}

// Track moves the tracker to the minion nearest p within radius.
func (s *Simulation) Track(p r2.Vec, radius float64) bool {
	best := components.NoID
	bestDist := radius
	s.world.Each(components.TypeMinion, func(a *components.Agent) {
		if !a.State.IsActive() {
			return
		}
		for _, seg := range a.Segments {
			if d := geometry.Distance(p, seg.Transform.Position); d <= bestDist {
				best, bestDist = a.ID, d
			}
		}
	})
	if best == components.NoID {
		return false
	}
	return s.world.SetTracked(best)
}

// Tracking returns the tracker position reported by the last step.
func (s *Simulation) Tracking() (r2.Vec, bool) { return s.alife.Tracking() }
