package game

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/oids/bus"
	"github.com/pthm-cable/oids/clock"
	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/genetics"
	"github.com/pthm-cable/oids/systems"
	"github.com/pthm-cable/oids/telemetry"
	"github.com/pthm-cable/oids/world"
)

// Options configures a simulation run.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	SnapshotDir    string
	OutputDir      string
	GenePoolFile   string // loaded at start and saved periodically; empty disables
	Headless       bool
	StepsPerUpdate int
}

// Simulation owns the world and runs the per-tick systems in order.
// It has no graphics dependency and is driven by Game or directly in tests.
type Simulation struct {
	cfg   *config.Config
	seed  int64
	rng   *rand.Rand
	timer *clock.SimulationTimer
	world *world.World
	bus   *bus.Bus

	contacts *systems.ContactSystem
	alife    *systems.AlifeSystem
	drift    *systems.DriftSystem
	feeders  *systems.FeederSystem

	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	output        *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)

	logStats     bool
	snapshotDir  string
	genePoolFile string
	lastSave     clock.Seconds
}

// NewSimulation builds a world from the global config, loads the gene pool
// and seeds the initial population.
func NewSimulation(opts Options) (*Simulation, error) {
	cfg := config.Cfg()
	timer := clock.NewSimulationTimer()

	w, err := world.New(cfg, timer)
	if err != nil {
		return nil, fmt.Errorf("creating world: %w", err)
	}

	if opts.GenePoolFile != "" {
		pool, err := genetics.LoadGenePool(opts.GenePoolFile, cfg.GenePool.Capacity)
		switch {
		case err == nil && pool.Len() > 0:
			w.SetMinionPool(pool)
			slog.Info("gene_pool_loaded", "path", opts.GenePoolFile, "size", pool.Len())
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	s := &Simulation{
		cfg:   cfg,
		seed:  opts.Seed,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		timer: timer,
		world: w,
		bus:   bus.New(),

		contacts: systems.NewContactSystem(w.Extent()),
		alife:    systems.NewAlifeSystem(timer, opts.Seed+1),
		drift:    systems.NewDriftSystem(opts.Seed + 2),
		feeders:  systems.NewFeederSystem(opts.Seed + 3),

		collector: telemetry.NewCollector(statsWindow),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output:    output,

		logStats:     opts.LogStats,
		snapshotDir:  opts.SnapshotDir,
		genePoolFile: opts.GenePoolFile,
	}

	s.bus.Subscribe(s.collector.RecordAlert)
	if output != nil {
		s.bus.Subscribe(s.recordEvent)
	}

	s.seedPopulation()
	return s, nil
}

// Step advances the simulation by one tick of length frame, clamped to the
// configured frame limits.
func (s *Simulation) Step(frame clock.Seconds) {
	dt := clock.ClampFrame(frame, s.cfg.Derived.MinFrame, s.cfg.Derived.MaxFrame)

	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseContacts)
	s.contacts.Update(s.world)

	s.perf.StartPhase(telemetry.PhaseImport)
	s.alife.Import(s.world)

	s.perf.StartPhase(telemetry.PhaseAdvance)
	s.alife.Update(dt)

	s.perf.StartPhase(telemetry.PhaseExport)
	s.alife.Export(s.world, s.bus)
	report := s.alife.Report()
	s.collector.RecordFeeding(report.Eaten, report.Decayed)
	s.collector.RecordFertilisations(report.Fertilised)

	s.perf.StartPhase(telemetry.PhaseCleanup)
	s.cleanup()

	s.perf.StartPhase(telemetry.PhaseDrift)
	s.drift.Update(s.world, dt)

	s.perf.StartPhase(telemetry.PhaseFeeders)
	s.feeders.Update(s.world, dt, s.bus)

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()
	s.saveIfDue()

	s.perf.EndTick()
}

// recordEvent appends an alert to the output event log.
func (s *Simulation) recordEvent(a bus.Alert) {
	if err := s.output.RecordEvent(s.timer.Ticks(), s.timer.Seconds().Get(), a); err != nil {
		slog.Error("failed to write event", "error", err)
	}
}

// World returns the simulated world.
func (s *Simulation) World() *world.World { return s.world }

// Tick returns the number of steps taken.
func (s *Simulation) Tick() int64 { return s.timer.Ticks() }

// SimTime returns the simulated time.
func (s *Simulation) SimTime() clock.Seconds { return s.timer.Seconds() }

// Subscribe registers an extra alert listener.
func (s *Simulation) Subscribe(l bus.Listener) { s.bus.Subscribe(l) }

// SetStatsCallback sets a function called with every flushed stats window.
func (s *Simulation) SetStatsCallback(fn func(telemetry.WindowStats)) {
	s.statsCallback = fn
}

// Perf returns the step timing collector.
func (s *Simulation) Perf() *telemetry.PerfCollector { return s.perf }

// Close saves the gene pool and closes experiment output.
func (s *Simulation) Close() error {
	s.saveGenePool()
	if err := s.output.WriteGenePool("gene_pool.csv", s.world.MinionPool()); err != nil {
		slog.Error("failed to write gene pool output", "error", err)
	}
	return s.output.Close()
}
