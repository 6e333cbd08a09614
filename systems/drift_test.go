package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/oids/bus"
	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/geometry"
)

func TestDrift_MovesBodiesRigidly(t *testing.T) {
	w, _, _ := newAlifeFixture(t)
	mid := addMinion(w, dnaA, 50, 1, r2.Vec{}, r2.Vec{X: -2})
	rid := addResource(w, 5, r2.Vec{X: 10})

	d := NewDriftSystem(1)
	d.Update(w, 0.5)

	m := w.Lookup(components.TypeMinion, mid)
	head := m.Segments[0].Transform.Position
	tail := m.Segments[1].Transform.Position
	if head == (r2.Vec{}) {
		t.Error("minion should drift")
	}
	if geometry.Distance(head, tail) < 1.999 || geometry.Distance(head, tail) > 2.001 {
		t.Errorf("body deformed: head %v tail %v", head, tail)
	}
	if w.Lookup(components.TypeResource, rid).Transform().Position != (r2.Vec{X: 10}) {
		t.Error("resources should not drift")
	}
}

func TestDrift_Deterministic(t *testing.T) {
	a := NewDriftSystem(7)
	b := NewDriftSystem(7)
	p := r2.Vec{X: 12, Y: -3}
	if a.FlowAt(p) != b.FlowAt(p) {
		t.Error("same seed should give the same flow")
	}
}

func TestDrift_AdvanceAnimatesFlow(t *testing.T) {
	params := config.DriftConfig{Speed: 1, Scale: 0.1, TimeSpeed: 1}
	d := NewDriftSystemFrom(3, params)
	if d.Params() != params {
		t.Errorf("params = %+v, want %+v", d.Params(), params)
	}

	p := r2.Vec{X: 5, Y: 5}
	before := d.FlowAt(p)
	d.Advance(2)
	if d.Time() != 2 {
		t.Errorf("time = %v, want 2", d.Time())
	}
	if d.FlowAt(p) == before {
		t.Error("flow should change as time advances")
	}
}

func TestFeeder_EmitsPerPeriod(t *testing.T) {
	w, _, _ := newAlifeFixture(t)
	var out bus.Recorder
	f := NewFeederSystem(3)

	feeders := w.Feeders()
	period := feeders[0].Period

	emitted := f.Update(w, period*3, &out)
	if emitted != 3*len(feeders) {
		t.Errorf("emitted = %d, want %d", emitted, 3*len(feeders))
	}
	if w.Count(components.TypeResource) != emitted {
		t.Errorf("resources = %d, want %d", w.Count(components.TypeResource), emitted)
	}
	if out.Count(bus.AlertNewResource) != emitted {
		t.Errorf("NewResource alerts = %d, want %d", out.Count(bus.AlertNewResource), emitted)
	}

	w.Each(components.TypeResource, func(a *components.Agent) {
		p := a.Transform().Position
		near := false
		for _, fd := range feeders {
			if geometry.Distance(p, fd.Position) <= fd.Spread+1e-9 {
				near = true
			}
		}
		if !near {
			t.Errorf("resource at %v is outside every feeder spread", p)
		}
	})
}

func TestFeeder_RespectsCap(t *testing.T) {
	w, _, _ := newAlifeFixture(t)
	var out bus.Recorder
	f := NewFeederSystem(3)
	f.maxResources = 2

	f.Update(w, 100, &out)
	if w.Count(components.TypeResource) != 2 {
		t.Errorf("resources = %d, want cap 2", w.Count(components.TypeResource))
	}
}
