package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/geometry"
	"github.com/pthm-cable/oids/world"
)

// probe is one active segment seen by contact detection.
type probe struct {
	id     components.ID
	typ    components.AgentType
	seg    int
	pos    r2.Vec
	radius float64
	mouth  bool
}

// ContactSystem writes Segment.LastTouched from segment overlaps.
//
// Each active segment records the nearest overlapping segment of another
// agent, or NoID when nothing overlaps. Mouths prefer resources over
// anything else in reach.
type ContactSystem struct {
	grid       *SpatialGrid
	probes     []probe
	candidates []int32
}

// NewContactSystem creates a contact system for the given arena.
func NewContactSystem(extent geometry.Rect) *ContactSystem {
	return &ContactSystem{
		grid: NewSpatialGrid(extent, config.Cfg().Contact.GridCellSize),
	}
}

// Update recomputes contacts for every active agent and returns how many
// segments are touching something.
func (c *ContactSystem) Update(w *world.World) int {
	c.grid.Clear()
	c.probes = c.probes[:0]
	maxRadius := 0.0

	for _, t := range components.AgentTypes {
		w.Each(t, func(a *components.Agent) {
			if !a.State.IsActive() {
				return
			}
			for i := range a.Segments {
				seg := &a.Segments[i]
				p := probe{
					id:     a.ID,
					typ:    a.Type,
					seg:    i,
					pos:    seg.Transform.Position,
					radius: seg.GrowingRadius(),
					mouth:  seg.Flags.Has(components.FlagMouth),
				}
				maxRadius = math.Max(maxRadius, p.radius)
				c.grid.Insert(int32(len(c.probes)), p.pos)
				c.probes = append(c.probes, p)
			}
		})
	}

	contacts := 0
	for i := range c.probes {
		p := &c.probes[i]
		touched := c.nearest(p, maxRadius)
		if touched != components.NoID {
			contacts++
		}
		if a := w.Agent(p.id); a != nil && p.seg < len(a.Segments) {
			a.Segments[p.seg].LastTouched = touched
		}
	}
	return contacts
}

func (c *ContactSystem) nearest(p *probe, maxRadius float64) components.ID {
	c.candidates = c.grid.QueryRadiusInto(c.candidates[:0], p.pos, p.radius+maxRadius)

	best := components.NoID
	bestDist := math.Inf(1)
	bestFood := false
	for _, idx := range c.candidates {
		q := &c.probes[idx]
		if q.id == p.id {
			continue
		}
		d := geometry.Distance(p.pos, q.pos)
		if d > p.radius+q.radius {
			continue
		}
		food := p.mouth && q.typ == components.TypeResource
		if bestFood && !food {
			continue
		}
		if (food && !bestFood) || d < bestDist {
			best, bestDist, bestFood = q.id, d, food
		}
	}
	return best
}
