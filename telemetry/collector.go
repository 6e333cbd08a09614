// Package telemetry provides population statistics, event logs and experiment output.
package telemetry

import (
	"github.com/pthm-cable/oids/bus"
	"github.com/pthm-cable/oids/clock"
	"github.com/pthm-cable/oids/components"
)

// Population is a census taken at the end of a window.
type Population struct {
	Resources      int
	Minions        int
	Spores         int
	MinionEnergies []float64
	GenePool       int
}

// Collector accumulates alerts within time windows and produces WindowStats.
type Collector struct {
	windowDuration clock.Seconds

	// Current window tracking
	windowStart     clock.Seconds
	windowStartTick int64

	// Event counters for current window
	newSpores        int
	newMinions       int
	minionDeaths     int
	newResources     int
	resourcesEaten   int
	resourcesDecayed int
	fertilisations   int
	removed          [3]int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 1
	}
	return &Collector{windowDuration: clock.Seconds(windowDurationSec)}
}

// RecordAlert counts an alert from the bus.
func (c *Collector) RecordAlert(a bus.Alert) {
	switch a {
	case bus.AlertNewSpore:
		c.newSpores++
	case bus.AlertNewMinion:
		c.newMinions++
	case bus.AlertDieMinion:
		c.minionDeaths++
	case bus.AlertNewResource:
		c.newResources++
	}
}

// RecordFeeding records resources eaten and corpse segments decayed this tick.
func (c *Collector) RecordFeeding(eaten, decayed int) {
	c.resourcesEaten += eaten
	c.resourcesDecayed += decayed
}

// RecordFertilisations records spores fertilised this tick.
func (c *Collector) RecordFertilisations(n int) {
	c.fertilisations += n
}

// RecordRemoval records an agent removed from the world.
func (c *Collector) RecordRemoval(t components.AgentType) {
	if int(t) < len(c.removed) {
		c.removed[t]++
	}
}

// ShouldFlush returns true if the current window has run its full length.
func (c *Collector) ShouldFlush(now clock.Seconds) bool {
	return now-c.windowStart >= c.windowDuration
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(now clock.Seconds, tick int64, pop Population) WindowStats {
	mean, std, p10, p50, p90 := ComputeEnergyStats(pop.MinionEnergies)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		SimTimeSec:      now.Get(),

		Resources: pop.Resources,
		Minions:   pop.Minions,
		Spores:    pop.Spores,
		GenePool:  pop.GenePool,

		NewSpores:        c.newSpores,
		NewMinions:       c.newMinions,
		MinionDeaths:     c.minionDeaths,
		NewResources:     c.newResources,
		ResourcesEaten:   c.resourcesEaten,
		ResourcesDecayed: c.resourcesDecayed,
		Fertilisations:   c.fertilisations,

		RemovedResources: c.removed[components.TypeResource],
		RemovedMinions:   c.removed[components.TypeMinion],
		RemovedSpores:    c.removed[components.TypeSpore],

		MinionEnergyMean: mean,
		MinionEnergyStd:  std,
		MinionEnergyP10:  p10,
		MinionEnergyP50:  p50,
		MinionEnergyP90:  p90,
	}

	// Reset for next window
	c.windowStart = now
	c.windowStartTick = tick
	c.newSpores = 0
	c.newMinions = 0
	c.minionDeaths = 0
	c.newResources = 0
	c.resourcesEaten = 0
	c.resourcesDecayed = 0
	c.fertilisations = 0
	c.removed = [3]int{}

	return stats
}
