// Package sweep runs the Query Tree protocol over a range of population
// sizes, repeating each size over independent trials, and reports the mean
// query count and identification efficiency per size.
package sweep

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/qtree-sim/sim"
	"github.com/inference-sim/qtree-sim/sim/population"
)

// Point aggregates the trials for one population size.
type Point struct {
	Tags          int     `json:"tags"`
	Trials        int     `json:"trials"`
	MeanQueries   float64 `json:"mean_queries"`
	StdDevQueries float64 `json:"stddev_queries"`
	MinQueries    float64 `json:"min_queries"`
	MaxQueries    float64 `json:"max_queries"`
	Efficiency    float64 `json:"efficiency"` // Tags / MeanQueries * 100
}

// Result is the outcome of a sweep.
type Result struct {
	Config         Config  `json:"config"`
	Points         []Point `json:"points"`
	MeanEfficiency float64 `json:"mean_efficiency"` // mean of the per-point efficiencies
}

// Observer receives sweep progress. ObserveTrial may be called from several
// goroutines at once; ObservePoint is called in size order from Run's goroutine.
type Observer interface {
	ObserveTrial(tags int, res sim.RunResult)
	ObservePoint(p Point)
}

// Efficiency is tags identified per query, as a percentage.
func Efficiency(tags int, meanQueries float64) float64 {
	if meanQueries == 0 {
		return 0
	}
	return float64(tags) / meanQueries * 100
}

// Run executes the sweep described by cfg. Every trial gets its own
// population drawn from an isolated RNG stream, so the result depends only
// on cfg and not on Workers or scheduling. obs may be nil.
func Run(ctx context.Context, cfg Config, obs Observer) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sizes := cfg.Sizes()

	// PartitionedRNG is single-goroutine; derive every trial seed up front.
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed))
	seeds := make([][]int64, len(sizes))
	queries := make([][]float64, len(sizes))
	for i, n := range sizes {
		seeds[i] = make([]int64, cfg.Trials)
		queries[i] = make([]float64, cfg.Trials)
		for trial := range seeds[i] {
			seeds[i][trial] = rng.TrialSeed(n, trial)
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, n := range sizes {
		for trial := 0; trial < cfg.Trials; trial++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				pop, err := population.Generate(rand.New(rand.NewSource(seeds[i][trial])), n, cfg.Bits)
				if err != nil {
					return fmt.Errorf("tags=%d trial=%d: %w", n, trial, err)
				}
				res := sim.Resolve(pop)
				queries[i][trial] = float64(res.Queries)
				if obs != nil {
					obs.ObserveTrial(n, res)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Config: cfg, Points: make([]Point, len(sizes))}
	efficiencies := make([]float64, len(sizes))
	for i, n := range sizes {
		p := summarize(n, queries[i])
		result.Points[i] = p
		efficiencies[i] = p.Efficiency
		logrus.Infof("tags=%d trials=%d mean_queries=%.2f efficiency=%.2f%%", n, p.Trials, p.MeanQueries, p.Efficiency)
		if obs != nil {
			obs.ObservePoint(p)
		}
	}
	if len(efficiencies) > 0 {
		result.MeanEfficiency = stat.Mean(efficiencies, nil)
	}
	return result, nil
}

func summarize(tags int, queries []float64) Point {
	p := Point{Tags: tags, Trials: len(queries)}
	if len(queries) == 0 {
		return p
	}
	if len(queries) == 1 {
		p.MeanQueries = queries[0]
	} else {
		p.MeanQueries, p.StdDevQueries = stat.MeanStdDev(queries, nil)
	}
	p.MinQueries = floats.Min(queries)
	p.MaxQueries = floats.Max(queries)
	p.Efficiency = Efficiency(tags, p.MeanQueries)
	return p
}
