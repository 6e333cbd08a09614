// Package bus delivers simulation alerts to interested listeners.
package bus

import "fmt"

// Alert is a payload-free notification posted by the simulation.
type Alert uint8

const (
	AlertNewSpore Alert = iota
	AlertNewMinion
	AlertDieMinion
	AlertNewResource
)

func (a Alert) String() string {
	switch a {
	case AlertNewSpore:
		return "new_spore"
	case AlertNewMinion:
		return "new_minion"
	case AlertDieMinion:
		return "die_minion"
	case AlertNewResource:
		return "new_resource"
	}
	return "unknown"
}

// MarshalText encodes the alert by name.
func (a Alert) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an alert name written by MarshalText.
func (a *Alert) UnmarshalText(b []byte) error {
	for c := AlertNewSpore; c <= AlertNewResource; c++ {
		if c.String() == string(b) {
			*a = c
			return nil
		}
	}
	return fmt.Errorf("unknown alert %q", b)
}

// Outbox accepts alerts. Posting never fails.
type Outbox interface {
	Post(Alert)
}

// Listener receives alerts in post order.
type Listener func(Alert)

// Bus fans out each posted alert to every listener synchronously,
// in subscription order.
type Bus struct {
	listeners []Listener
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers a listener.
func (b *Bus) Subscribe(l Listener) {
	b.listeners = append(b.listeners, l)
}

// Post delivers a to all listeners.
func (b *Bus) Post(a Alert) {
	for _, l := range b.listeners {
		l(a)
	}
}

// Recorder is an Outbox that keeps every alert it receives.
type Recorder struct {
	Alerts []Alert
}

// Post appends a.
func (r *Recorder) Post(a Alert) {
	r.Alerts = append(r.Alerts, a)
}

// Count returns how many times a was posted.
func (r *Recorder) Count(a Alert) int {
	n := 0
	for _, x := range r.Alerts {
		if x == a {
			n++
		}
	}
	return n
}

// Reset clears recorded alerts.
func (r *Recorder) Reset() {
	r.Alerts = r.Alerts[:0]
}
