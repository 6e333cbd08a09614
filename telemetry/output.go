package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/oids/bus"
	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/genetics"
)

// csvTable appends gocsv records to a file, writing the header once.
type csvTable struct {
	file          *os.File
	headerWritten bool
}

func createTable(dir, name string) (*csvTable, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvTable{file: f}, nil
}

func (t *csvTable) append(records any) error {
	if !t.headerWritten {
		t.headerWritten = true
		return gocsv.Marshal(records, t.file)
	}
	return gocsv.MarshalWithoutHeaders(records, t.file)
}

// OutputManager writes experiment output into a single directory:
// telemetry.csv, perf.csv, events.jsonl.zst, config.yaml and gene pool dumps.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir       string
	telemetry *csvTable
	perf      *csvTable
	events    *EventLog
}

// NewOutputManager creates the output directory and its files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.telemetry, err = createTable(dir, "telemetry.csv"); err != nil {
		return nil, err
	}
	if om.perf, err = createTable(dir, "perf.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.events, err = NewEventLog(filepath.Join(dir, EventLogName)); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the active configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends a window stats row to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.append([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf appends a performance row to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int64) error {
	if om == nil {
		return nil
	}
	if err := om.perf.append([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// RecordEvent appends an alert to the event log.
func (om *OutputManager) RecordEvent(tick int64, simTime float64, a bus.Alert) error {
	if om == nil {
		return nil
	}
	return om.events.Write(Event{Tick: tick, SimTime: simTime, Alert: a})
}

// WriteGenePool dumps a gene pool to a CSV file in the output directory.
func (om *OutputManager) WriteGenePool(name string, pool *genetics.GenePool) error {
	if om == nil || pool == nil {
		return nil
	}
	return pool.Save(filepath.Join(om.dir, name))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if om.telemetry != nil {
		keep(om.telemetry.file.Close())
	}
	if om.perf != nil {
		keep(om.perf.file.Close())
	}
	if om.events != nil {
		keep(om.events.Close())
	}
	return firstErr
}
