package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/game"
	"github.com/pthm-cable/oids/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int64
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int64                   // ticks before the lineage died out (or maxTicks)
	windowStats   []telemetry.WindowStats // collected via the stats callback
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
}

// configFor builds the config for parameter vector x. Reseeding is disabled
// so that extinction is observable.
func (fe *FitnessEvaluator) configFor(x []float64) *config.Config {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Population.MinMinions = 0
	cfg.GenePool.File = ""
	return cfg
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Systems read the global config at construction; all seeds share it.
	if err := config.Set(fe.configFor(x)); err != nil {
		return 0
	}

	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(s)
			q := computeQuality(r.windowStats)
			results[idx] = seedResult{fitness: computeFitness(r, q), quality: q}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation runs one headless simulation until minions and spores are
// both gone or maxTicks is reached.
func (fe *FitnessEvaluator) runSimulation(seed int64) *runResult {
	result := &runResult{}

	sim, err := game.NewSimulation(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
	})
	if err != nil {
		return result
	}
	defer sim.Close()
	sim.SetStatsCallback(func(stats telemetry.WindowStats) {
		result.windowStats = append(result.windowStats, stats)
	})

	dt := config.Cfg().Derived.DT
	w := sim.World()
	for sim.Tick() < fe.maxTicks {
		sim.Step(dt)
		if sim.Tick()%60 != 0 {
			continue
		}
		if len(w.Energies(components.TypeMinion)) == 0 && w.Count(components.TypeSpore) == 0 {
			result.survivalTicks = sim.Tick()
			return result
		}
	}
	result.survivalTicks = fe.maxTicks
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
func computeFitness(r *runResult, quality float64) float64 {
	return -(float64(r.survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightTurnover  = 0.40
	qualityWeightStability = 0.30
	qualityWeightEnergy    = 0.30

	qualityWarmupWindows = 3 // skip first N windows
	qualityMinPop        = 3 // exclude windows with fewer minions
)

// computeQuality scores ecosystem health in [0, 1] from window stats:
// generational turnover, population stability and median energy.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var turnoverSum, energySum float64
	var counts []float64
	for _, w := range windows[qualityWarmupWindows:] {
		if w.Minions < qualityMinPop {
			continue
		}
		counts = append(counts, float64(w.Minions))

		hatchesPerMinion := float64(w.NewMinions) / float64(w.Minions)
		turnoverSum += 1 - math.Exp(-hatchesPerMinion)

		// Median energy near half of the default max (100) is healthy.
		energySum += math.Exp(-math.Pow((w.MinionEnergyP50-50)/25, 2))
	}
	if len(counts) == 0 {
		return 0
	}
	n := float64(len(counts))

	stability := 0.0
	if len(counts) >= 2 {
		mean, std := stat.PopMeanStdDev(counts, nil)
		if mean > 0 {
			cv := std / mean
			stability = math.Exp(-cv * cv)
		}
	}

	quality := qualityWeightTurnover*turnoverSum/n +
		qualityWeightStability*stability +
		qualityWeightEnergy*energySum/n
	return min(max(quality, 0), 1)
}
