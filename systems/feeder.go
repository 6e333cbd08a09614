package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/oids/bus"
	"github.com/pthm-cable/oids/clock"
	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/geometry"
	"github.com/pthm-cable/oids/world"
)

// FeederSystem emits resources from the world's feeders.
type FeederSystem struct {
	rng          *rand.Rand
	maxResources int
}

// NewFeederSystem creates a feeder system seeded with seed.
func NewFeederSystem(seed int64) *FeederSystem {
	return &FeederSystem{
		rng:          rand.New(rand.NewSource(seed)),
		maxResources: config.Cfg().Population.MaxResources,
	}
}

// Update advances every feeder by dt and emits one resource per elapsed
// period, up to the resource cap. It returns the number emitted.
func (f *FeederSystem) Update(w *world.World, dt clock.Seconds, outbox bus.Outbox) int {
	room := math.MaxInt
	if f.maxResources > 0 {
		room = f.maxResources - w.Count(components.TypeResource)
	}

	emitted := 0
	feeders := w.Feeders()
	for i := range feeders {
		fd := &feeders[i]
		if fd.Period <= 0 {
			continue
		}
		fd.Elapsed += dt
		for fd.Elapsed >= fd.Period {
			fd.Elapsed -= fd.Period
			if emitted >= room {
				continue
			}
			w.NewResource(f.emitTransform(fd), w.ResourcePool().Next(f.rng))
			outbox.Post(bus.AlertNewResource)
			emitted++
		}
	}
	return emitted
}

// emitTransform picks a point uniformly within the feeder's spread.
func (f *FeederSystem) emitTransform(fd *world.Feeder) geometry.Transform {
	r := fd.Spread * math.Sqrt(f.rng.Float64())
	theta := f.rng.Float64() * 2 * math.Pi
	offset := r2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
	return geometry.Transform{
		Position: r2.Add(fd.Position, offset),
		Angle:    f.rng.Float64() * 2 * math.Pi,
	}
}
