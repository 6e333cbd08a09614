package inspector

import (
	"testing"

	"github.com/pthm-cable/oids/clock"
	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/genetics"
	"github.com/pthm-cable/oids/geometry"
)

func TestDescribe_Minion(t *testing.T) {
	a := &components.Agent{
		ID:    7,
		Type:  components.TypeMinion,
		Dna:   genetics.Dna{1, 2, 3},
		State: components.NewState(40, 100, clock.Forever(), genetics.GenderB),
		Segments: []components.Segment{
			components.NewSegment(geometry.NewTransform(0, 0, 0), 1, components.NewCharge(0.3, 0.3, 0.25), 0.5,
				components.FlagHead|components.FlagMouth|components.FlagTracker),
			components.NewSegment(geometry.NewTransform(-1, 0, 0), 0.8, components.NewCharge(0.3, 0.3, 0.25), 0.5,
				components.FlagTail),
		},
	}

	d := Describe(a, 12.5)
	if d.Title != "minion #7" {
		t.Errorf("title = %q", d.Title)
	}
	if d.Energy != 40 || d.MaxEnergy != 100 {
		t.Errorf("energy = %v/%v", d.Energy, d.MaxEnergy)
	}

	rows := map[string]string{}
	for _, r := range d.Rows {
		rows[r.Name] = r.Value
	}
	if rows["status"] != "active" || rows["age"] != "12.5s" || rows["dna"] != a.Dna.String() {
		t.Errorf("rows = %v", rows)
	}
	if _, ok := rows["fertilised"]; ok {
		t.Error("minions have no fertilised row")
	}

	if len(d.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(d.Segments))
	}
	if d.Segments[0].Flags != "HM*" || d.Segments[1].Flags != "T" {
		t.Errorf("flags = %q, %q", d.Segments[0].Flags, d.Segments[1].Flags)
	}
}

func TestDescribe_SporeShowsFertilisation(t *testing.T) {
	a := &components.Agent{
		ID:    3,
		Type:  components.TypeSpore,
		State: components.NewState(1, 1, clock.Forever(), genetics.GenderA),
	}
	a.State.Fertilise(genetics.Dna{9})

	d := Describe(a, 0)
	found := false
	for _, r := range d.Rows {
		if r.Name == "fertilised" {
			found = r.Value == "true"
		}
	}
	if !found {
		t.Errorf("rows = %+v, want fertilised=true", d.Rows)
	}
}
