package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/geometry"
)

func TestSpatialGrid_QueryFindsNeighbours(t *testing.T) {
	g := NewSpatialGrid(geometry.Square(80), 8)
	g.Insert(0, r2.Vec{X: 1, Y: 1})
	g.Insert(1, r2.Vec{X: 50, Y: 50})
	g.Insert(2, r2.Vec{X: 500, Y: 0}) // clamped to the border

	got := g.QueryRadiusInto(nil, r2.Vec{}, 3)
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("query near origin = %v, want [0]", got)
	}

	got = g.QueryRadiusInto(nil, r2.Vec{X: 80, Y: 0}, 1)
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("query at border = %v, want [2]", got)
	}

	g.Clear()
	if len(g.QueryRadiusInto(nil, r2.Vec{X: 1, Y: 1}, 3)) != 0 {
		t.Error("Clear should empty the grid")
	}
}

func TestContact_MouthTouchesResource(t *testing.T) {
	w, _, _ := newAlifeFixture(t)
	rid := addResource(w, 5, r2.Vec{X: 1.2})
	mid := addMinion(w, dnaA, 50, 1, r2.Vec{}, r2.Vec{X: -2})
	far := addResource(w, 5, r2.Vec{X: 30})

	c := NewContactSystem(w.Extent())
	if n := c.Update(w); n == 0 {
		t.Fatal("expected contacts")
	}

	m := w.Lookup(components.TypeMinion, mid)
	if m.Segments[0].LastTouched != rid {
		t.Errorf("mouth touched %d, want resource %d", m.Segments[0].LastTouched, rid)
	}
	if m.Segments[1].LastTouched != components.NoID {
		t.Errorf("tail touched %d, want nothing", m.Segments[1].LastTouched)
	}
	if w.Lookup(components.TypeResource, rid).Segments[0].LastTouched != mid {
		t.Error("resource should record the minion")
	}
	if w.Lookup(components.TypeResource, far).Segments[0].LastTouched != components.NoID {
		t.Error("distant resource should touch nothing")
	}
}

func TestContact_ClearsWhenApart(t *testing.T) {
	w, _, _ := newAlifeFixture(t)
	rid := addResource(w, 5, r2.Vec{X: 1})
	mid := addMinion(w, dnaA, 50, 1, r2.Vec{})

	c := NewContactSystem(w.Extent())
	c.Update(w)
	if w.Lookup(components.TypeMinion, mid).Segments[0].LastTouched != rid {
		t.Fatal("expected initial contact")
	}

	w.Lookup(components.TypeResource, rid).Segments[0].Transform.Position = r2.Vec{X: 40}
	c.Update(w)
	if w.Lookup(components.TypeMinion, mid).Segments[0].LastTouched != components.NoID {
		t.Error("contact should clear once apart")
	}
}

func TestContact_MouthPrefersFood(t *testing.T) {
	w, _, _ := newAlifeFixture(t)
	other := addMinion(w, dnaB, 50, 1, r2.Vec{X: 0.5})
	rid := addResource(w, 5, r2.Vec{X: -1.5})
	mid := addMinion(w, dnaA, 50, 1, r2.Vec{})

	NewContactSystem(w.Extent()).Update(w)

	got := w.Lookup(components.TypeMinion, mid).Segments[0].LastTouched
	if got != rid {
		t.Errorf("mouth touched %d, want resource %d over minion %d", got, rid, other)
	}
}

func TestContact_FeedsAlife(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	rid := addResource(w, 5, r2.Vec{X: 1})
	addMinion(w, dnaA, 50, 1, r2.Vec{})

	NewContactSystem(w.Extent()).Update(w)
	tick(s, w, out, 0.1)

	if !w.Lookup(components.TypeResource, rid).State.IsDead() {
		t.Error("resource in contact with a mouth should be eaten")
	}
}
