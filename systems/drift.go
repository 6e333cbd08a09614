package systems

import (
	"math"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/oids/clock"
	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/world"
)

// DriftSystem carries minions and spores along an animated noise flow.
// Bodies move rigidly; resources stay where they were emitted.
type DriftSystem struct {
	noise     opensimplex.Noise
	speed     float64
	scale     float64
	timeSpeed float64
	time      float64
}

// NewDriftSystem creates a drift field from seed using the global config.
func NewDriftSystem(seed int64) *DriftSystem {
	return NewDriftSystemFrom(seed, config.Cfg().Drift)
}

// NewDriftSystemFrom creates a drift field from seed and explicit parameters.
func NewDriftSystemFrom(seed int64, cfg config.DriftConfig) *DriftSystem {
	return &DriftSystem{
		noise:     opensimplex.New(seed),
		speed:     cfg.Speed,
		scale:     cfg.Scale,
		timeSpeed: cfg.TimeSpeed,
	}
}

// FlowAt returns the flow heading in radians at p.
func (d *DriftSystem) FlowAt(p r2.Vec) float64 {
	n := d.noise.Eval3(p.X*d.scale, p.Y*d.scale, d.time*d.timeSpeed)
	return n * 2 * math.Pi
}

// Params returns the flow parameters.
func (d *DriftSystem) Params() config.DriftConfig {
	return config.DriftConfig{Speed: d.speed, Scale: d.scale, TimeSpeed: d.timeSpeed}
}

// Time returns the flow animation time in seconds.
func (d *DriftSystem) Time() float64 { return d.time }

// Advance moves the flow animation forward by dt without touching agents.
func (d *DriftSystem) Advance(dt clock.Seconds) { d.time += dt.Get() }

// Update moves every active minion and spore by dt.
func (d *DriftSystem) Update(w *world.World, dt clock.Seconds) {
	d.Advance(dt)
	if d.speed == 0 {
		return
	}

	move := func(a *components.Agent) {
		if !a.State.IsActive() || len(a.Segments) == 0 {
			return
		}
		angle := d.FlowAt(a.Segments[0].Transform.Position)
		step := r2.Scale(d.speed*dt.Get(), r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)})
		for i := range a.Segments {
			a.Segments[i].Transform = a.Segments[i].Transform.Translate(step)
		}
		a.Segments[0].Transform.Angle = angle
	}
	w.Each(components.TypeMinion, move)
	w.Each(components.TypeSpore, move)
}
