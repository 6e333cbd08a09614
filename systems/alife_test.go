package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/oids/bus"
	"github.com/pthm-cable/oids/clock"
	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/genetics"
	"github.com/pthm-cable/oids/geometry"
	"github.com/pthm-cable/oids/world"
)

var (
	dnaA  = genetics.Dna{0x10, 0x20, 0x30, 0x40, 0x50, 0x60} // gender A
	dnaB  = genetics.Dna{0x11, 0x22, 0x33, 0x44, 0x55, 0x66} // gender B
	dnaB2 = genetics.Dna{0x13, 0x99, 0x99, 0x99, 0x99, 0x99} // gender B
)

func ensureConfig() {
	config.MustInit("")
}

func newAlifeFixture(t *testing.T) (*world.World, *AlifeSystem, *bus.Recorder) {
	t.Helper()
	ensureConfig()
	timer := clock.NewSimulationTimer()
	w, err := world.New(config.Cfg(), timer)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	return w, NewAlifeSystem(timer, 42), &bus.Recorder{}
}

// addMinion places a minion with one segment per position. The first segment is a mouth.
func addMinion(w *world.World, dna genetics.Dna, energy, maturity float64, positions ...r2.Vec) components.ID {
	id := w.NewMinion(geometry.NewTransform(0, 0, 0), dna)
	a := w.Lookup(components.TypeMinion, id)
	a.State.Energy = energy
	a.State.MaxEnergy = 100

	segments := make([]components.Segment, 0, len(positions))
	for i, p := range positions {
		var flags components.Flags
		if i == 0 {
			flags = components.FlagHead | components.FlagMouth
		}
		st := geometry.Transform{Position: p}
		segments = append(segments, components.NewSegment(st, 1, components.NewCharge(0.3, 0.15, 0.25), maturity, flags))
	}
	a.Segments = segments
	return id
}

func addResource(w *world.World, energy float64, pos r2.Vec) components.ID {
	id := w.NewResource(geometry.Transform{Position: pos}, genetics.Dna{1})
	w.Lookup(components.TypeResource, id).State.Energy = energy
	return id
}

func tick(s *AlifeSystem, w *world.World, out bus.Outbox, dt clock.Seconds) {
	s.Import(w)
	s.Update(dt)
	s.Export(w, out)
}

func upkeep(a *components.Agent, dt float64) float64 {
	var total float64
	for i := range a.Segments {
		total += dt * a.Segments[i].Charge.Value * a.Segments[i].GrowingRadius()
	}
	return total
}

func TestAlife_EatenResourceDies(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	eaten := addResource(w, 5, r2.Vec{X: 1})
	spare := addResource(w, 5, r2.Vec{X: 20})
	mid := addMinion(w, dnaA, 50, 1, r2.Vec{})
	w.Lookup(components.TypeMinion, mid).Segments[0].LastTouched = eaten

	tick(s, w, out, 0.1)

	if !w.Lookup(components.TypeResource, eaten).State.IsDead() {
		t.Error("eaten resource should be dead")
	}
	if !w.Lookup(components.TypeResource, spare).State.IsActive() {
		t.Error("untouched resource should stay active")
	}
	if s.Report().Eaten != 1 {
		t.Errorf("report eaten = %d, want 1", s.Report().Eaten)
	}
}

func TestAlife_ResourceDeathRules(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	empty := addResource(w, 0, r2.Vec{})
	live := addResource(w, 5, r2.Vec{X: 2})
	chargeBefore := w.Lookup(components.TypeResource, live).Segments[0].Charge.Value

	tick(s, w, out, 0.1)

	if !w.Lookup(components.TypeResource, empty).State.IsDead() {
		t.Error("resource with no energy should die")
	}
	liveRes := w.Lookup(components.TypeResource, live)
	if !liveRes.State.IsActive() {
		t.Fatal("resource should be alive before expiry")
	}
	if liveRes.Segments[0].Charge.Value == chargeBefore {
		t.Error("live resource should advance its charge")
	}

	tick(s, w, out, clock.Seconds(config.Cfg().Resource.Lifespan))
	if !w.Lookup(components.TypeResource, live).State.IsDead() {
		t.Error("resource should die at expiry")
	}
	if len(out.Alerts) != 0 {
		t.Errorf("resource deaths should be silent, got %v", out.Alerts)
	}
}

func TestAlife_JuvenileGrowth(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	zero := r2.Vec{X: 1, Y: 1}
	positions := []r2.Vec{zero, {X: 3, Y: 1}, {X: 5, Y: 2}}
	id := addMinion(w, dnaA, 100, 0.5, positions...)

	tick(s, w, out, 0.1)

	a := w.Lookup(components.TypeMinion, id)
	for i, p := range positions {
		want := r2.Add(zero, r2.Scale(1.1, r2.Sub(p, zero)))
		got := a.Segments[i].Transform.Position
		if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
			t.Errorf("segment %d at %v, want %v", i, got, want)
		}
		if math.Abs(a.Segments[i].Maturity()-0.55) > 1e-9 {
			t.Errorf("segment %d maturity = %v, want 0.55", i, a.Segments[i].Maturity())
		}
	}
	if a.State.Growth() != 1.1 {
		t.Errorf("growth = %v, want 1.1", a.State.Growth())
	}
	if a.State.Energy >= 90 || a.State.Energy < 89 {
		t.Errorf("energy = %v, want just under 90", a.State.Energy)
	}
}

func TestAlife_JuvenileStarvingDoesNotGrow(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	id := addMinion(w, dnaA, 50, 0.5, r2.Vec{}, r2.Vec{X: 2})

	tick(s, w, out, 0.1)

	a := w.Lookup(components.TypeMinion, id)
	if a.Segments[1].Transform.Position.X != 2 {
		t.Errorf("segment moved to %v without growth", a.Segments[1].Transform.Position)
	}
	if a.Segments[0].Maturity() != 0.5 {
		t.Errorf("maturity = %v, want 0.5", a.Segments[0].Maturity())
	}
}

func TestAlife_MatureReproduces(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	tail := r2.Vec{X: -3, Y: 4}
	id := addMinion(w, dnaA, 100, 1, r2.Vec{}, tail)

	tick(s, w, out, 0.1)

	if out.Count(bus.AlertNewSpore) != 1 {
		t.Fatalf("NewSpore alerts = %d, want 1", out.Count(bus.AlertNewSpore))
	}
	a := w.Lookup(components.TypeMinion, id)
	if a.State.Energy > 25 {
		t.Errorf("energy = %v, want at most 25 after spawning", a.State.Energy)
	}

	var spores []*components.Agent
	w.Each(components.TypeSpore, func(sp *components.Agent) { spores = append(spores, sp) })
	if len(spores) != 1 {
		t.Fatalf("spores = %d, want 1", len(spores))
	}
	if spores[0].Transform().Position != tail {
		t.Errorf("spore at %v, want last segment %v", spores[0].Transform().Position, tail)
	}
	if !spores[0].Dna.Equal(dnaA) {
		t.Error("spore should carry the parent's dna")
	}
}

func TestAlife_BoundaryExitKills(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	outside := r2.Vec{X: config.Cfg().World.Radius + 1}
	id := addMinion(w, dnaA, 80, 1, r2.Vec{}, outside)

	tick(s, w, out, 0.1)

	if !w.Lookup(components.TypeMinion, id).State.IsDead() {
		t.Error("minion with a segment outside the arena should die")
	}
	if out.Count(bus.AlertDieMinion) != 1 {
		t.Errorf("DieMinion alerts = %d, want 1", out.Count(bus.AlertDieMinion))
	}
	if w.Count(components.TypeResource) != 0 {
		t.Error("boundary death should not decay into resources")
	}
}

func TestAlife_StarvationDecaysOncePerSegment(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	dna := genetics.Dna{0x42, 0x42}
	positions := []r2.Vec{{X: 1}, {X: 2}, {X: 3}}
	id := addMinion(w, dna, 0.5, 1, positions...)

	tick(s, w, out, 0.1)

	if !w.Lookup(components.TypeMinion, id).State.IsDead() {
		t.Fatal("minion below death energy should die")
	}
	if out.Count(bus.AlertDieMinion) != 1 {
		t.Errorf("DieMinion alerts = %d, want 1", out.Count(bus.AlertDieMinion))
	}

	var resources []*components.Agent
	w.Each(components.TypeResource, func(r *components.Agent) { resources = append(resources, r) })
	if len(resources) != len(positions) {
		t.Fatalf("resources = %d, want %d", len(resources), len(positions))
	}
	for _, r := range resources {
		if !r.Dna.Equal(dna) {
			t.Errorf("decayed resource dna = %v, want %v", r.Dna, dna)
		}
	}

	// Dead minions are skipped until cleanup: no second death.
	out.Reset()
	tick(s, w, out, 0.1)
	if out.Count(bus.AlertDieMinion) != 0 {
		t.Error("death should be observed only once")
	}
}

func TestAlife_FeedingScenario(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	rid := addResource(w, 5, r2.Vec{X: 1})
	w.Lookup(components.TypeResource, rid).Segments[0].Charge.Value = 0.8
	mid := addMinion(w, dnaA, 50, 1, r2.Vec{})
	m := w.Lookup(components.TypeMinion, mid)
	m.Segments[0].LastTouched = rid
	cost := upkeep(m, 1.0)

	tick(s, w, out, 1.0)

	m = w.Lookup(components.TypeMinion, mid)
	if math.Abs(m.State.Energy-(55-cost)) > 1e-9 {
		t.Errorf("energy = %v, want %v", m.State.Energy, 55-cost)
	}
	if !m.State.IsActive() {
		t.Error("minion should survive")
	}
	if !w.Lookup(components.TypeResource, rid).State.IsDead() {
		t.Error("resource should be dead")
	}
	if out.Count(bus.AlertNewSpore) != 0 {
		t.Error("no reproduction below the spawn threshold")
	}
	if out.Count(bus.AlertDieMinion) != 0 {
		t.Error("no DieMinion should be posted")
	}
}

func TestAlife_TwoMinionsEatSameResource(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	rid := addResource(w, 5, r2.Vec{})
	a := addMinion(w, dnaA, 20, 1, r2.Vec{X: 1})
	b := addMinion(w, dnaB, 20, 1, r2.Vec{X: -1})
	w.Lookup(components.TypeMinion, a).Segments[0].LastTouched = rid
	w.Lookup(components.TypeMinion, b).Segments[0].LastTouched = rid

	tick(s, w, out, 0.1)

	for _, id := range []components.ID{a, b} {
		if e := w.Lookup(components.TypeMinion, id).State.Energy; e < 24.9 {
			t.Errorf("minion %d energy = %v, want about 25", id, e)
		}
	}
}

func TestAlife_DanglingContactIgnored(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	mid := addMinion(w, dnaA, 50, 1, r2.Vec{})
	w.Lookup(components.TypeMinion, mid).Segments[0].LastTouched = 9999
	sid := w.NewSpore(geometry.Transform{}, dnaA)
	w.Lookup(components.TypeSpore, sid).Segments[0].LastTouched = 9999

	tick(s, w, out, 0.1)

	if w.Lookup(components.TypeMinion, mid).State.Energy >= 50 {
		t.Error("minion should only pay upkeep")
	}
	if w.Lookup(components.TypeSpore, sid).State.IsFertilised() {
		t.Error("dangling contact should not fertilise")
	}
}

func TestAlife_AsexualHatch(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	w.NewSpore(geometry.NewTransform(3, 4, 0), dnaA)

	tick(s, w, out, clock.Seconds(config.Cfg().Spore.Lifespan))

	if out.Count(bus.AlertNewMinion) != 1 {
		t.Fatalf("NewMinion alerts = %d, want 1", out.Count(bus.AlertNewMinion))
	}
	var minions []*components.Agent
	w.Each(components.TypeMinion, func(m *components.Agent) { minions = append(minions, m) })
	if len(minions) != 1 {
		t.Fatalf("minions = %d, want 1", len(minions))
	}
	if !minions[0].Dna.Equal(dnaA) {
		t.Errorf("hatched dna = %v, want %v", minions[0].Dna, dnaA)
	}
	if p := minions[0].Transform().Position; p.X != 3 || p.Y != 4 {
		t.Errorf("hatched at %v, want spore position", p)
	}

	out.Reset()
	tick(s, w, out, 0.1)
	if out.Count(bus.AlertNewMinion) != 0 {
		t.Error("a spore should hatch only once")
	}
}

func TestAlife_FertilisationFirstWins(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	sid := w.NewSpore(geometry.Transform{}, dnaA)
	first := addMinion(w, dnaB, 50, 1, r2.Vec{X: 1})
	second := addMinion(w, dnaB2, 50, 1, r2.Vec{X: -1})

	w.Lookup(components.TypeSpore, sid).Segments[0].LastTouched = first
	tick(s, w, out, 0.1)

	sp := w.Lookup(components.TypeSpore, sid)
	if !sp.State.IsFertilised() {
		t.Fatal("opposite-gender contact should fertilise")
	}
	if !sp.State.ForeignDna().Equal(dnaB) {
		t.Errorf("foreign dna = %v, want %v", sp.State.ForeignDna(), dnaB)
	}
	if out.Count(bus.AlertDieMinion) != 1 {
		t.Errorf("fertilisation alerts = %d, want 1", out.Count(bus.AlertDieMinion))
	}

	out.Reset()
	sp.Segments[0].LastTouched = second
	tick(s, w, out, 0.1)

	sp = w.Lookup(components.TypeSpore, sid)
	if !sp.State.ForeignDna().Equal(dnaB) {
		t.Error("second fertilisation should be ignored")
	}
	if out.Count(bus.AlertDieMinion) != 0 {
		t.Error("ignored fertilisation should not post alerts")
	}
}

func TestAlife_SameGenderContactIgnored(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	sid := w.NewSpore(geometry.Transform{}, dnaB)
	mid := addMinion(w, dnaB2, 50, 1, r2.Vec{X: 1})
	w.Lookup(components.TypeSpore, sid).Segments[0].LastTouched = mid

	tick(s, w, out, 0.1)

	if w.Lookup(components.TypeSpore, sid).State.IsFertilised() {
		t.Error("same-gender contact should not fertilise")
	}
	if len(out.Alerts) != 0 {
		t.Errorf("alerts = %v, want none", out.Alerts)
	}
}

func TestAlife_SexualHatchMixesParents(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	sid := w.NewSpore(geometry.Transform{}, dnaA)
	mid := addMinion(w, dnaB, 50, 1, r2.Vec{X: 1})
	w.Lookup(components.TypeSpore, sid).Segments[0].LastTouched = mid
	tick(s, w, out, 0.1)

	tick(s, w, out, clock.Seconds(config.Cfg().Spore.Lifespan))

	var child *components.Agent
	w.Each(components.TypeMinion, func(m *components.Agent) {
		if m.ID != mid {
			child = m
		}
	})
	if child == nil {
		t.Fatal("fertilised spore should hatch")
	}
	if len(child.Dna) != len(dnaA) {
		t.Fatalf("child dna len = %d, want %d", len(child.Dna), len(dnaA))
	}
	for i, b := range child.Dna {
		if b != dnaA[i] && b != dnaB[i] {
			t.Errorf("byte %d = %x from neither parent", i, b)
		}
	}
}

func TestAlife_AlertOrder(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	addMinion(w, dnaA, 0.5, 1, r2.Vec{X: 10})         // starves
	addMinion(w, dnaA, 100, 1, r2.Vec{X: -10})        // reproduces
	w.NewSpore(geometry.NewTransform(0, 10, 0), dnaA) // hatches

	tick(s, w, out, clock.Seconds(config.Cfg().Spore.Lifespan))

	want := []bus.Alert{bus.AlertNewSpore, bus.AlertNewMinion, bus.AlertDieMinion}
	if len(out.Alerts) != len(want) {
		t.Fatalf("alerts = %v, want %v", out.Alerts, want)
	}
	for i := range want {
		if out.Alerts[i] != want[i] {
			t.Errorf("alert %d = %v, want %v", i, out.Alerts[i], want[i])
		}
	}
}

func TestAlife_TrackingFollowsTracker(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	id := addMinion(w, dnaA, 50, 1, r2.Vec{X: 7, Y: -2})
	if !w.SetTracked(id) {
		t.Fatal("SetTracked failed")
	}

	tick(s, w, out, 0.1)

	p, ok := s.Tracking()
	if !ok || p.X != 7 || p.Y != -2 {
		t.Errorf("tracking = %v (%v), want (7, -2)", p, ok)
	}
	if len(s.Sources()) != len(config.Cfg().Feeders) {
		t.Errorf("sources = %d, want %d", len(s.Sources()), len(config.Cfg().Feeders))
	}
}

func TestAlife_EatenResourceDiesRegardlessOfState(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	id := addResource(w, 0, r2.Vec{X: 1})
	res := w.Lookup(components.TypeResource, id)
	res.State.Lifecycle = clock.Lifecycle{} // deadline already reached
	chargeBefore := res.Segments[0].Charge.Value

	mid := addMinion(w, dnaA, 50, 1, r2.Vec{})
	w.Lookup(components.TypeMinion, mid).Segments[0].LastTouched = id

	tick(s, w, out, 0.1)

	res = w.Lookup(components.TypeResource, id)
	if !res.State.IsDead() {
		t.Fatal("eaten, empty, expired resource should be dead")
	}
	if res.Segments[0].Charge.Value != chargeBefore {
		t.Errorf("dying resource advanced its charge: %v -> %v", chargeBefore, res.Segments[0].Charge.Value)
	}
	if len(out.Alerts) != 0 {
		t.Errorf("resource death posted alerts: %v", out.Alerts)
	}
	if s.Report().ResourcesDied != 1 {
		t.Errorf("resources died = %d, want 1", s.Report().ResourcesDied)
	}

	// Still in the world until cleanup, but it only dies once.
	tick(s, w, out, 0.1)
	if s.Report().ResourcesDied != 0 {
		t.Errorf("resources died on second tick = %d, want 0", s.Report().ResourcesDied)
	}
}

func TestAlife_TrackingClearsWhenTrackerGone(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	id := addMinion(w, dnaA, 50, 1, r2.Vec{X: 7, Y: -2})
	if !w.SetTracked(id) {
		t.Fatal("SetTracked failed")
	}

	tick(s, w, out, 0.1)
	if _, ok := s.Tracking(); !ok {
		t.Fatal("expected tracking while the tracker lives")
	}

	w.Lookup(components.TypeMinion, id).State.Die()
	w.Cleanup()
	tick(s, w, out, 0.1)

	if p, ok := s.Tracking(); ok {
		t.Errorf("tracking = %v after the tracker was removed, want none", p)
	}
}

func TestAlife_DefaultMinionReproduces(t *testing.T) {
	w, s, out := newAlifeFixture(t)
	cfg := config.Cfg()
	dna := genetics.MustParseDna(cfg.GenePool.Minion[2])
	w.NewMinion(geometry.NewTransform(0, 0, 0), dna)
	poolBefore := w.MinionPool().Len()

	dt := cfg.Derived.DT
	for elapsed := clock.Seconds(0); elapsed < 2; elapsed += dt {
		tick(s, w, out, dt)
		if out.Count(bus.AlertNewSpore) > 0 {
			break
		}
	}
	if out.Count(bus.AlertNewSpore) == 0 {
		t.Fatal("an unfed default minion never laid a spore")
	}

	limit := clock.Seconds(cfg.Spore.Lifespan) + 1
	for elapsed := clock.Seconds(0); elapsed < limit; elapsed += dt {
		tick(s, w, out, dt)
		w.Cleanup()
		if out.Count(bus.AlertNewMinion) > 0 {
			break
		}
	}
	if out.Count(bus.AlertNewMinion) == 0 {
		t.Fatal("spore never hatched")
	}
	if w.MinionPool().Len() != poolBefore+1 {
		t.Errorf("gene pool size = %d, want %d", w.MinionPool().Len(), poolBefore+1)
	}
}
