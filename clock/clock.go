// Package clock provides simulation time: a monotonic timer and per-agent deadlines.
package clock

import "math"

// Seconds is a duration or instant in simulation seconds.
type Seconds float64

// Get returns the value as a float64.
func (s Seconds) Get() float64 { return float64(s) }

// Never is a deadline that is never reached.
const Never = Seconds(math.MaxFloat64)

// SimulationTimer accumulates simulated time. It only moves forward.
type SimulationTimer struct {
	elapsed Seconds
	ticks   int64
}

// NewSimulationTimer creates a timer at t=0.
func NewSimulationTimer() *SimulationTimer {
	return &SimulationTimer{}
}

// Tick advances the timer by dt. Negative steps are ignored.
func (t *SimulationTimer) Tick(dt Seconds) {
	if dt > 0 {
		t.elapsed += dt
	}
	t.ticks++
}

// Seconds returns the total simulated time.
func (t *SimulationTimer) Seconds() Seconds { return t.elapsed }

// Ticks returns the number of Tick calls.
func (t *SimulationTimer) Ticks() int64 { return t.ticks }

// Lifecycle records when an agent was born and when it expires.
type Lifecycle struct {
	Birth    Seconds
	Deadline Seconds
}

// NewLifecycle starts a lifecycle now that expires after lifespan.
// A non-positive lifespan never expires.
func NewLifecycle(timer *SimulationTimer, lifespan Seconds) Lifecycle {
	now := timer.Seconds()
	if lifespan <= 0 {
		return Lifecycle{Birth: now, Deadline: Never}
	}
	return Lifecycle{Birth: now, Deadline: now + lifespan}
}

// Forever returns a lifecycle that never expires.
func Forever() Lifecycle {
	return Lifecycle{Deadline: Never}
}

// IsExpired reports whether the deadline has been reached.
func (l Lifecycle) IsExpired(timer *SimulationTimer) bool {
	return timer.Seconds() >= l.Deadline
}

// Age returns the time since birth.
func (l Lifecycle) Age(timer *SimulationTimer) Seconds {
	return timer.Seconds() - l.Birth
}

// ClampFrame limits a frame length to [min, max].
func ClampFrame(dt, min, max Seconds) Seconds {
	if dt < min {
		return min
	}
	if dt > max {
		return max
	}
	return dt
}
