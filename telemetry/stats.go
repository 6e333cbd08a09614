package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	Resources int `csv:"resources"`
	Minions   int `csv:"minions"`
	Spores    int `csv:"spores"`
	GenePool  int `csv:"gene_pool"`

	// Alerts during window
	NewSpores    int `csv:"new_spores"`
	NewMinions   int `csv:"new_minions"`
	MinionDeaths int `csv:"die_minion"`
	NewResources int `csv:"new_resources"`

	// Feeding and inheritance
	ResourcesEaten   int `csv:"resources_eaten"`
	ResourcesDecayed int `csv:"resources_decayed"`
	Fertilisations   int `csv:"fertilisations"`

	// Removals by cleanup
	RemovedResources int `csv:"removed_resources"`
	RemovedMinions   int `csv:"removed_minions"`
	RemovedSpores    int `csv:"removed_spores"`

	// Minion energy distribution (sampled at window end)
	MinionEnergyMean float64 `csv:"minion_energy_mean"`
	MinionEnergyStd  float64 `csv:"minion_energy_std"`
	MinionEnergyP10  float64 `csv:"minion_energy_p10"`
	MinionEnergyP50  float64 `csv:"minion_energy_p50"`
	MinionEnergyP90  float64 `csv:"minion_energy_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean, population std and percentiles.
func ComputeEnergyStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("resources", s.Resources),
		slog.Int("minions", s.Minions),
		slog.Int("spores", s.Spores),
		slog.Int("gene_pool", s.GenePool),
		slog.Int("new_spores", s.NewSpores),
		slog.Int("new_minions", s.NewMinions),
		slog.Int("die_minion", s.MinionDeaths),
		slog.Int("new_resources", s.NewResources),
		slog.Int("resources_eaten", s.ResourcesEaten),
		slog.Int("resources_decayed", s.ResourcesDecayed),
		slog.Int("fertilisations", s.Fertilisations),
		slog.Float64("minion_energy_mean", s.MinionEnergyMean),
		slog.Float64("minion_energy_std", s.MinionEnergyStd),
		slog.Float64("minion_energy_p50", s.MinionEnergyP50),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"resources", s.Resources,
		"minions", s.Minions,
		"spores", s.Spores,
		"new_spores", s.NewSpores,
		"new_minions", s.NewMinions,
		"die_minion", s.MinionDeaths,
		"new_resources", s.NewResources,
		"resources_eaten", s.ResourcesEaten,
		"resources_decayed", s.ResourcesDecayed,
		"fertilisations", s.Fertilisations,
		"removed_minions", s.RemovedMinions,
		"minion_energy_mean", s.MinionEnergyMean,
		"minion_energy_p10", s.MinionEnergyP10,
		"minion_energy_p90", s.MinionEnergyP90,
	)
}
