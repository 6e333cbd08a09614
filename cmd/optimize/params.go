package main

import (
	"github.com/pthm-cable/oids/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{
				Name: "growth_ratio", Path: "alife.growth_ratio", Min: 0.02, Max: 0.3, Default: 0.1,
				get: func(c *config.Config) float64 { return c.Alife.GrowthRatio },
				set: func(c *config.Config, v float64) { c.Alife.GrowthRatio = v },
			},
			{
				Name: "spawn_threshold", Path: "alife.spawn_threshold", Min: 0.6, Max: 0.99, Default: 0.95,
				get: func(c *config.Config) float64 { return c.Alife.SpawnThreshold },
				set: func(c *config.Config, v float64) { c.Alife.SpawnThreshold = v },
			},
			{
				Name: "spawn_ratio", Path: "alife.spawn_ratio", Min: 0.3, Max: 0.9, Default: 0.75,
				get: func(c *config.Config) float64 { return c.Alife.SpawnRatio },
				set: func(c *config.Config, v float64) { c.Alife.SpawnRatio = v },
			},
			{
				Name: "minion_charge", Path: "minion.charge", Min: 0.05, Max: 0.8, Default: 0.3,
				get: func(c *config.Config) float64 { return c.Minion.Charge },
				set: func(c *config.Config, v float64) { c.Minion.Charge = v },
			},
			{
				Name: "minion_charge_decay", Path: "minion.charge_decay_time", Min: 0.05, Max: 1.0, Default: 0.25,
				get: func(c *config.Config) float64 { return c.Minion.ChargeDecayTime },
				set: func(c *config.Config, v float64) { c.Minion.ChargeDecayTime = v },
			},
			{
				Name: "spore_lifespan", Path: "spore.lifespan", Min: 2, Max: 20, Default: 8,
				get: func(c *config.Config) float64 { return c.Spore.Lifespan },
				set: func(c *config.Config, v float64) { c.Spore.Lifespan = v },
			},
			{
				Name: "resource_energy", Path: "resource.energy", Min: 2, Max: 30, Default: 10,
				get: func(c *config.Config) float64 { return c.Resource.Energy },
				set: func(c *config.Config, v float64) {
					c.Resource.Energy = v
					c.Resource.MaxEnergy = v
				},
			},
			{
				Name: "feeder_period", Path: "feeders[*].period", Min: 0.1, Max: 2, Default: 0.5,
				get: func(c *config.Config) float64 {
					if len(c.Feeders) == 0 {
						return 0.5
					}
					return c.Feeders[0].Period
				},
				set: func(c *config.Config, v float64) {
					for i := range c.Feeders {
						c.Feeders[i].Period = v
					}
				},
			},
			{
				Name: "mutation_rate", Path: "alife.mutation_rate", Min: 0, Max: 0.05, Default: 0,
				get: func(c *config.Config) float64 { return c.Alife.MutationRate },
				set: func(c *config.Config, v float64) { c.Alife.MutationRate = v },
			},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return out
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return out
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return out
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = spec.get(cfg)
	}
	return out
}
