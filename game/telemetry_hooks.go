package game

import (
	"log/slog"

	"github.com/pthm-cable/oids/clock"
	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/telemetry"
)

// flushTelemetry emits a stats window when the current one is complete.
func (s *Simulation) flushTelemetry() {
	now := s.timer.Seconds()
	if !s.collector.ShouldFlush(now) {
		return
	}

	stats := s.collector.Flush(now, s.timer.Ticks(), s.census())
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// census counts agents by type.
func (s *Simulation) census() telemetry.Population {
	return telemetry.Population{
		Resources:      s.world.Count(components.TypeResource),
		Minions:        s.world.Count(components.TypeMinion),
		Spores:         s.world.Count(components.TypeSpore),
		MinionEnergies: s.world.Energies(components.TypeMinion),
		GenePool:       s.world.MinionPool().Len(),
	}
}

// saveIfDue persists the gene pool and a snapshot every save interval.
func (s *Simulation) saveIfDue() {
	interval := clock.Seconds(s.cfg.Telemetry.SaveInterval)
	if interval <= 0 || s.timer.Seconds()-s.lastSave < interval {
		return
	}
	s.lastSave = s.timer.Seconds()
	s.saveGenePool()
	s.SaveSnapshot()
}

// saveGenePool writes the minion gene pool to the configured file.
func (s *Simulation) saveGenePool() {
	if s.genePoolFile == "" {
		return
	}
	pool := s.world.MinionPool()
	if err := pool.Save(s.genePoolFile); err != nil {
		slog.Error("failed to save gene pool", "path", s.genePoolFile, "error", err)
		return
	}
	slog.Info("gene_pool_saved", "path", s.genePoolFile, "size", pool.Len())
}

// SaveSnapshot writes a world snapshot to the snapshot directory, if set.
func (s *Simulation) SaveSnapshot() {
	if s.snapshotDir == "" {
		return
	}
	path, err := telemetry.SaveSnapshot(telemetry.CaptureSnapshot(s.world, s.seed), s.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot_saved", "path", path, "tick", s.timer.Ticks())
}
