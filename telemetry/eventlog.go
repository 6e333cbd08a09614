package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pthm-cable/oids/bus"
)

// EventLogName is the file name used for the alert log in an output directory.
const EventLogName = "events.jsonl.zst"

// Event is one alert as it appears in the event log.
type Event struct {
	Tick    int64     `json:"tick"`
	SimTime float64   `json:"sim_time"`
	Alert   bus.Alert `json:"alert"`
}

// EventLog writes events as zstd-compressed JSON lines.
type EventLog struct {
	f   *os.File
	zw  *zstd.Encoder
	buf *bufio.Writer
	n   int
}

// NewEventLog creates (truncating) the log at path.
func NewEventLog(path string) (*EventLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating event log: %w", err)
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating zstd writer: %w", err)
	}
	return &EventLog{f: f, zw: zw, buf: bufio.NewWriterSize(zw, 64*1024)}, nil
}

// Write appends one event.
func (l *EventLog) Write(e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	if _, err := l.buf.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	l.n++
	return nil
}

// Len returns the number of events written.
func (l *EventLog) Len() int { return l.n }

// Close flushes the buffer and the zstd frame, then closes the file.
func (l *EventLog) Close() error {
	err := l.buf.Flush()
	if cerr := l.zw.Close(); err == nil {
		err = cerr
	}
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadEvents decodes every event in a log written by EventLog.
func ReadEvents(r io.Reader) ([]Event, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening zstd stream: %w", err)
	}
	defer zr.Close()

	var events []Event
	dec := json.NewDecoder(zr)
	for {
		var e Event
		if err := dec.Decode(&e); err == io.EOF {
			return events, nil
		} else if err != nil {
			return events, fmt.Errorf("decoding event %d: %w", len(events), err)
		}
		events = append(events, e)
	}
}
