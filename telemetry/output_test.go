package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/oids/bus"
	"github.com/pthm-cable/oids/genetics"
)

func TestOutputManager_NilIsNoop(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.RecordEvent(1, 0.1, bus.AlertNewSpore); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManager_WritesCSVOnceHeader(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for tick := int64(1); tick <= 3; tick++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: tick * 100, Minions: int(tick)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WritePerf(PerfStats{}, 300); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("telemetry.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Count(string(data), "window_end") != 1 {
		t.Error("header written more than once")
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(perf), "contacts_pct") {
		t.Errorf("perf.csv header missing phase columns: %q", perf)
	}
}

func TestOutputManager_EventLogRoundTrip(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	want := []Event{
		{Tick: 1, SimTime: 1.0 / 60, Alert: bus.AlertNewSpore},
		{Tick: 1, SimTime: 1.0 / 60, Alert: bus.AlertNewMinion},
		{Tick: 2, SimTime: 2.0 / 60, Alert: bus.AlertDieMinion},
	}
	for _, e := range want {
		if err := om.RecordEvent(e.Tick, e.SimTime, e.Alert); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, EventLogName))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := ReadEvents(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("read %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestOutputManager_WriteGenePool(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	pool, err := genetics.NewGenePool([]string{"GyA21QoQ", "M00sWS0M"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteGenePool("pool.csv", pool); err != nil {
		t.Fatal(err)
	}

	loaded, err := genetics.LoadGenePool(filepath.Join(dir, "pool.csv"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != 2 {
		t.Errorf("loaded %d genomes, want 2", loaded.Len())
	}
}
