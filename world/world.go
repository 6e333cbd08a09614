// Package world owns every agent in the simulation and the arena they live in.
package world

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/oids/clock"
	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/genetics"
	"github.com/pthm-cable/oids/geometry"
)

// Feeder is an ambient resource source.
type Feeder struct {
	Position r2.Vec
	Period   clock.Seconds
	Spread   float64
	Elapsed  clock.Seconds // time since the last emission
}

// Removed describes an agent dropped by Cleanup.
type Removed struct {
	ID     components.ID
	Type   components.AgentType
	Energy float64
}

// World stores agents as ECS entities keyed by a stable ID.
//
// Agents are created and removed only through World methods, never while
// an Each callback is running.
type World struct {
	ecs   *ecs.World
	cfg   *config.Config
	timer *clock.SimulationTimer

	extent  geometry.Rect
	feeders []Feeder

	nextID components.ID
	index  map[components.ID]ecs.Entity

	agents         *ecs.Map1[components.Agent]
	resourceMapper *ecs.Map2[components.Agent, components.Resource]
	minionMapper   *ecs.Map2[components.Agent, components.Minion]
	sporeMapper    *ecs.Map2[components.Agent, components.Spore]
	resourceFilter *ecs.Filter2[components.Agent, components.Resource]
	minionFilter   *ecs.Filter2[components.Agent, components.Minion]
	sporeFilter    *ecs.Filter2[components.Agent, components.Spore]

	minionPool   *genetics.GenePool
	resourcePool *genetics.GenePool
	trackerID    components.ID
}

// New creates an empty world using cfg for agent parameters and timer for deadlines.
func New(cfg *config.Config, timer *clock.SimulationTimer) (*World, error) {
	minionPool, err := genetics.NewGenePool(cfg.GenePool.Minion, cfg.GenePool.Capacity)
	if err != nil {
		return nil, fmt.Errorf("building minion gene pool: %w", err)
	}
	resourcePool, err := genetics.NewGenePool(cfg.GenePool.Resource, 0)
	if err != nil {
		return nil, fmt.Errorf("building resource gene pool: %w", err)
	}

	w := ecs.NewWorld()
	wd := &World{
		ecs:    w,
		cfg:    cfg,
		timer:  timer,
		extent: cfg.Derived.Extent,
		nextID: 1,
		index:  make(map[components.ID]ecs.Entity),

		agents:         ecs.NewMap1[components.Agent](w),
		resourceMapper: ecs.NewMap2[components.Agent, components.Resource](w),
		minionMapper:   ecs.NewMap2[components.Agent, components.Minion](w),
		sporeMapper:    ecs.NewMap2[components.Agent, components.Spore](w),
		resourceFilter: ecs.NewFilter2[components.Agent, components.Resource](w),
		minionFilter:   ecs.NewFilter2[components.Agent, components.Minion](w),
		sporeFilter:    ecs.NewFilter2[components.Agent, components.Spore](w),

		minionPool:   minionPool,
		resourcePool: resourcePool,
	}

	for _, f := range cfg.Feeders {
		wd.AddFeeder(r2.Vec{X: f.X, Y: f.Y}, clock.Seconds(f.Period), f.Spread)
	}
	return wd, nil
}

// Extent returns the arena bounds.
func (w *World) Extent() geometry.Rect { return w.extent }

// Timer returns the simulation timer used for agent deadlines.
func (w *World) Timer() *clock.SimulationTimer { return w.timer }

// AddFeeder registers an ambient resource source.
func (w *World) AddFeeder(pos r2.Vec, period clock.Seconds, spread float64) {
	w.feeders = append(w.feeders, Feeder{Position: pos, Period: period, Spread: spread})
}

// Feeders returns the feeder list. Callers may update Elapsed in place.
func (w *World) Feeders() []Feeder { return w.feeders }

// MinionPool returns the pool of minion genomes.
func (w *World) MinionPool() *genetics.GenePool { return w.minionPool }

// SetMinionPool replaces the minion gene pool, e.g. after loading one from disk.
func (w *World) SetMinionPool(p *genetics.GenePool) { w.minionPool = p }

// ResourcePool returns the pool of resource genomes.
func (w *World) ResourcePool() *genetics.GenePool { return w.resourcePool }

// Each calls fn for every agent of type t. fn may mutate the agent in place
// but must not create or remove agents.
func (w *World) Each(t components.AgentType, fn func(a *components.Agent)) {
	switch t {
	case components.TypeResource:
		query := w.resourceFilter.Query()
		for query.Next() {
			a, _ := query.Get()
			fn(a)
		}
	case components.TypeMinion:
		query := w.minionFilter.Query()
		for query.Next() {
			a, _ := query.Get()
			fn(a)
		}
	case components.TypeSpore:
		query := w.sporeFilter.Query()
		for query.Next() {
			a, _ := query.Get()
			fn(a)
		}
	}
}

// Agent returns the agent with the given id, or nil if it no longer exists.
func (w *World) Agent(id components.ID) *components.Agent {
	e, ok := w.index[id]
	if !ok || !w.ecs.Alive(e) {
		return nil
	}
	return w.agents.Get(e)
}

// Lookup returns the agent with the given id if it has type t, or nil.
func (w *World) Lookup(t components.AgentType, id components.ID) *components.Agent {
	a := w.Agent(id)
	if a == nil || a.Type != t {
		return nil
	}
	return a
}

// Count returns the number of agents of type t, dead or alive.
func (w *World) Count(t components.AgentType) int {
	n := 0
	w.Each(t, func(*components.Agent) { n++ })
	return n
}

// Energies returns the energy of every active agent of type t.
func (w *World) Energies(t components.AgentType) []float64 {
	var out []float64
	w.Each(t, func(a *components.Agent) {
		if a.State.IsActive() {
			out = append(out, a.State.Energy)
		}
	})
	return out
}

// Cleanup removes every dead agent and returns what was removed.
func (w *World) Cleanup() []Removed {
	// First pass: collect dead entities (must complete before modifying)
	var removed []Removed
	var entities []ecs.Entity
	for _, t := range components.AgentTypes {
		w.Each(t, func(a *components.Agent) {
			if a.State.IsDead() {
				removed = append(removed, Removed{ID: a.ID, Type: a.Type, Energy: a.State.Energy})
				entities = append(entities, w.index[a.ID])
			}
		})
	}

	// Second pass: remove entities (query iteration complete)
	for i, e := range entities {
		w.ecs.RemoveEntity(e)
		delete(w.index, removed[i].ID)
		if removed[i].ID == w.trackerID {
			w.trackerID = components.NoID
		}
	}
	return removed
}

// Tracked returns the id of the agent carrying the tracker, if any.
func (w *World) Tracked() components.ID { return w.trackerID }

// SetTracked moves the tracker flag to the head of minion id.
// It reports false if id is not a living minion.
func (w *World) SetTracked(id components.ID) bool {
	a := w.Lookup(components.TypeMinion, id)
	if a == nil || !a.State.IsActive() || len(a.Segments) == 0 {
		return false
	}
	if prev := w.Lookup(components.TypeMinion, w.trackerID); prev != nil {
		for i := range prev.Segments {
			prev.Segments[i].Flags &^= components.FlagTracker
		}
	}
	a.Segments[0].Flags |= components.FlagTracker
	w.trackerID = id
	return true
}

func (w *World) allocID() components.ID {
	id := w.nextID
	w.nextID++
	return id
}

func (w *World) add(a components.Agent) components.ID {
	a.ID = w.allocID()
	var e ecs.Entity
	switch a.Type {
	case components.TypeResource:
		e = w.resourceMapper.NewEntity(&a, &components.Resource{})
	case components.TypeMinion:
		e = w.minionMapper.NewEntity(&a, &components.Minion{})
	case components.TypeSpore:
		e = w.sporeMapper.NewEntity(&a, &components.Spore{})
	}
	w.index[a.ID] = e
	return a.ID
}
