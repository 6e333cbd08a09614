package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pthm-cable/oids/genetics"
	"github.com/pthm-cable/oids/telemetry"
)

func TestHarvest_ActiveMinionsAndSpores(t *testing.T) {
	snap := &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		Tick:    10,
		Agents: []telemetry.AgentState{
			{Type: "minion", Active: true, Dna: "GyA21QoQ"},
			{Type: "minion", Active: false, Dna: "AAAA"},
			{Type: "resource", Active: true, Dna: "M00sWS0M"},
			{Type: "spore", Active: true, Dna: "M00sWS0M"},
		},
		GenePool: []string{"BBBB"},
	}
	path, err := telemetry.SaveSnapshot(snap, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	pool, err := harvest(path, 8)
	if err != nil {
		t.Fatal(err)
	}
	got := pool.Encoded()
	if len(got) != 2 || got[0] != "GyA21QoQ" || got[1] != "M00sWS0M" {
		t.Errorf("harvested %v", got)
	}
}

func TestHarvest_FallsBackToGenePool(t *testing.T) {
	snap := &telemetry.Snapshot{Version: telemetry.SnapshotVersion, GenePool: []string{"GyA21QoQ"}}
	path, err := telemetry.SaveSnapshot(snap, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	pool, err := harvest(path, 8)
	if err != nil {
		t.Fatal(err)
	}
	if pool.Len() != 1 {
		t.Errorf("pool size = %d, want 1", pool.Len())
	}
}

func TestPrintPool(t *testing.T) {
	pool, err := genetics.NewGenePool([]string{"GyA21QoQ"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	printPool(&buf, pool)
	if !strings.Contains(buf.String(), "bytes=6") || !strings.Contains(buf.String(), "1 genomes") {
		t.Errorf("output = %q", buf.String())
	}
}
