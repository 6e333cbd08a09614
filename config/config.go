// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/oids/clock"
	"github.com/pthm-cable/oids/geometry"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Clock      ClockConfig      `yaml:"clock"`
	Alife      AlifeConfig      `yaml:"alife"`
	Resource   AgentConfig      `yaml:"resource"`
	Minion     MinionConfig     `yaml:"minion"`
	Spore      AgentConfig      `yaml:"spore"`
	Contact    ContactConfig    `yaml:"contact"`
	Drift      DriftConfig      `yaml:"drift"`
	Feeders    []FeederConfig   `yaml:"feeders"`
	Population PopulationConfig `yaml:"population"`
	GenePool   GenePoolConfig   `yaml:"gene_pool"`
	Camera     CameraConfig     `yaml:"camera"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the arena size. The arena is a square centered on the origin.
type WorldConfig struct {
	Radius float64 `yaml:"radius"`
}

// ClockConfig holds frame pacing.
type ClockConfig struct {
	DT       float64 `yaml:"dt"`        // fixed step used in headless mode
	MinFrame float64 `yaml:"min_frame"` // lower clamp on elapsed time per tick
	MaxFrame float64 `yaml:"max_frame"` // upper clamp on elapsed time per tick
}

// AlifeConfig holds the growth, reproduction and death rules.
type AlifeConfig struct {
	GrowthRatio    float64 `yaml:"growth_ratio"`    // energy share spent per growth step, also the growth factor
	SpawnThreshold float64 `yaml:"spawn_threshold"` // energy/max gate for reproduction
	SpawnRatio     float64 `yaml:"spawn_ratio"`     // energy share spent on a spore
	DeathEnergy    float64 `yaml:"death_energy"`    // minions die below this
	MutationRate   float64 `yaml:"mutation_rate"`   // per-byte bit flip probability on hatch
}

// AgentConfig holds creation parameters for resources and spores.
type AgentConfig struct {
	Energy          float64 `yaml:"energy"`
	MaxEnergy       float64 `yaml:"max_energy"`
	Lifespan        float64 `yaml:"lifespan"` // seconds, 0 = never expires
	Radius          float64 `yaml:"radius"`
	Maturity        float64 `yaml:"maturity"`
	Charge          float64 `yaml:"charge"`
	ChargeDecayTime float64 `yaml:"charge_decay_time"`
}

// MinionConfig holds creation parameters for minions.
type MinionConfig struct {
	Energy          float64 `yaml:"energy"`
	MaxEnergy       float64 `yaml:"max_energy"`
	Maturity        float64 `yaml:"maturity"`
	Charge          float64 `yaml:"charge"`
	ChargeDecayTime float64 `yaml:"charge_decay_time"`
	SegmentRadius   float64 `yaml:"segment_radius"`
	MinSegments     int     `yaml:"min_segments"`
	MaxSegments     int     `yaml:"max_segments"`
}

// ContactConfig holds contact detection parameters.
type ContactConfig struct {
	GridCellSize float64 `yaml:"grid_cell_size"`
}

// DriftConfig holds the noise flow that moves minions and spores.
type DriftConfig struct {
	Speed     float64 `yaml:"speed"`      // world units per second
	Scale     float64 `yaml:"scale"`      // noise frequency
	TimeSpeed float64 `yaml:"time_speed"` // noise animation speed
}

// FeederConfig places an ambient resource source.
type FeederConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Period float64 `yaml:"period"` // seconds between emissions
	Spread float64 `yaml:"spread"` // emission radius
}

// PopulationConfig holds seeding parameters.
type PopulationConfig struct {
	InitialMinions   int `yaml:"initial_minions"`
	InitialResources int `yaml:"initial_resources"`
	MinMinions       int `yaml:"min_minions"` // reseed from the gene pool below this
	MaxResources     int `yaml:"max_resources"`
}

// GenePoolConfig holds the seed genomes.
type GenePoolConfig struct {
	Minion   []string `yaml:"minion"`
	Resource []string `yaml:"resource"`
	Capacity int      `yaml:"capacity"`
	File     string   `yaml:"file"`
}

// CameraConfig holds graphical camera parameters.
type CameraConfig struct {
	Inertia float64 `yaml:"inertia"` // follow rate, per second
	ZoomMin float64 `yaml:"zoom_min"`
	ZoomMax float64 `yaml:"zoom_max"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	SaveInterval        float64 `yaml:"save_interval"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Extent   geometry.Rect // arena bounds
	DT       clock.Seconds
	MinFrame clock.Seconds
	MaxFrame clock.Seconds
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Set validates c, recomputes derived values and installs it as the global configuration.
func Set(c *Config) error {
	if err := c.validate(); err != nil {
		return err
	}
	c.computeDerived()
	global = c
	return nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Feeders = append([]FeederConfig(nil), c.Feeders...)
	out.GenePool.Minion = append([]string(nil), c.GenePool.Minion...)
	out.GenePool.Resource = append([]string(nil), c.GenePool.Resource...)
	return &out
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	if c.World.Radius <= 0 {
		return fmt.Errorf("world.radius must be positive, got %v", c.World.Radius)
	}
	if c.Clock.MinFrame > c.Clock.MaxFrame {
		return fmt.Errorf("clock.min_frame %v exceeds clock.max_frame %v", c.Clock.MinFrame, c.Clock.MaxFrame)
	}
	if c.Minion.MinSegments < 1 || c.Minion.MaxSegments < c.Minion.MinSegments {
		return fmt.Errorf("minion segment range [%d, %d] is invalid", c.Minion.MinSegments, c.Minion.MaxSegments)
	}
	if c.Contact.GridCellSize <= 0 {
		return fmt.Errorf("contact.grid_cell_size must be positive, got %v", c.Contact.GridCellSize)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Extent = geometry.Square(c.World.Radius)
	c.Derived.DT = clock.Seconds(c.Clock.DT)
	c.Derived.MinFrame = clock.Seconds(c.Clock.MinFrame)
	c.Derived.MaxFrame = clock.Seconds(c.Clock.MaxFrame)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
