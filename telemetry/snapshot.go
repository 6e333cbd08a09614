package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/world"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is a JSON census of every agent at one tick.
type Snapshot struct {
	Version int     `json:"version"`
	Seed    int64   `json:"seed"`
	Tick    int64   `json:"tick"`
	SimTime float64 `json:"sim_time"`

	ExtentMin [2]float64 `json:"extent_min"`
	ExtentMax [2]float64 `json:"extent_max"`

	Feeders  []FeederState `json:"feeders"`
	Agents   []AgentState  `json:"agents"`
	GenePool []string      `json:"gene_pool"`
	Tracked  uint64        `json:"tracked,omitempty"`
}

// FeederState is one feeder's position and timing.
type FeederState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Period float64 `json:"period"`
	Spread float64 `json:"spread"`
}

// AgentState holds one agent's state.
type AgentState struct {
	ID        uint64         `json:"id"`
	Type      string         `json:"type"`
	Active    bool           `json:"active"`
	Energy    float64        `json:"energy"`
	MaxEnergy float64        `json:"max_energy"`
	Gender    string         `json:"gender"`
	Dna       string         `json:"dna"`
	Segments  []SegmentState `json:"segments"`
}

// SegmentState holds one body segment.
type SegmentState struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Angle    float64 `json:"angle"`
	Radius   float64 `json:"radius"`
	Maturity float64 `json:"maturity"`
	Charge   float64 `json:"charge"`
	Flags    uint8   `json:"flags"`
}

// CaptureSnapshot records the current contents of w.
func CaptureSnapshot(w *world.World, seed int64) *Snapshot {
	ext := w.Extent()
	s := &Snapshot{
		Version:   SnapshotVersion,
		Seed:      seed,
		Tick:      w.Timer().Ticks(),
		SimTime:   w.Timer().Seconds().Get(),
		ExtentMin: [2]float64{ext.Min.X, ext.Min.Y},
		ExtentMax: [2]float64{ext.Max.X, ext.Max.Y},
		GenePool:  w.MinionPool().Encoded(),
		Tracked:   uint64(w.Tracked()),
	}
	for _, f := range w.Feeders() {
		s.Feeders = append(s.Feeders, FeederState{
			X: f.Position.X, Y: f.Position.Y,
			Period: f.Period.Get(), Spread: f.Spread,
		})
	}
	for _, t := range components.AgentTypes {
		w.Each(t, func(a *components.Agent) {
			s.Agents = append(s.Agents, agentState(a))
		})
	}
	return s
}

func agentState(a *components.Agent) AgentState {
	as := AgentState{
		ID:        uint64(a.ID),
		Type:      a.Type.String(),
		Active:    a.State.IsActive(),
		Energy:    a.State.Energy,
		MaxEnergy: a.State.MaxEnergy,
		Gender:    a.Gender().String(),
		Dna:       a.Dna.String(),
		Segments:  make([]SegmentState, len(a.Segments)),
	}
	for i, seg := range a.Segments {
		as.Segments[i] = SegmentState{
			X:        seg.Transform.Position.X,
			Y:        seg.Transform.Position.Y,
			Angle:    seg.Transform.Angle,
			Radius:   seg.Radius,
			Maturity: seg.Maturity(),
			Charge:   seg.Charge.Value,
			Flags:    uint8(seg.Flags),
		}
	}
	return as
}

// Count returns the number of agents of the named type in the snapshot.
func (s *Snapshot) Count(agentType string) int {
	n := 0
	for _, a := range s.Agents {
		if a.Type == agentType {
			n++
		}
	}
	return n
}

// SaveSnapshot writes a snapshot to dir and returns the file path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Tick))
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
