// Package bootstrap estimates the sampling distribution of a group mean by
// resampling with replacement.
package bootstrap

import (
	"errors"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultIterations is the number of bootstrap draws per group.
const DefaultIterations = 1000

// ErrInsufficientData marks a group too small to resample. Callers skip the
// group and continue; it is never fatal to a run.
var ErrInsufficientData = errors.New("bootstrap: group has fewer than two values")

// Config carries the run-scoped resampling parameters. The seed fixes the
// random source so that identical input and seed reproduce the output
// byte for byte.
type Config struct {
	Iterations int
	Seed       int64
}

// Estimator draws bootstrap distributions from an explicit random source.
// One estimator is created per pipeline run; it is not safe for concurrent
// use.
type Estimator struct {
	iterations int
	rng        *rand.Rand
}

func New(cfg Config) *Estimator {
	iterations := cfg.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Estimator{
		iterations: iterations,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Distribution is the ordered sequence of bootstrapped statistic values for
// one group.
type Distribution []float64

// Mean of the bootstrap distribution.
func (d Distribution) Mean() float64 { return stat.Mean(d, nil) }

// Median of the bootstrap distribution, interpolated between the middle
// samples for even counts.
func (d Distribution) Median() float64 {
	sorted := append([]float64(nil), d...)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.LinInterp, sorted, nil)
}

// Resample draws Iterations means, each over a with-replacement resample of
// values at their original size. Groups with fewer than two values return
// ErrInsufficientData.
func (e *Estimator) Resample(values []float64) (Distribution, error) {
	if len(values) < 2 {
		return nil, ErrInsufficientData
	}
	dist := make(Distribution, e.iterations)
	draw := make([]float64, len(values))
	for i := range dist {
		for j := range draw {
			draw[j] = values[e.rng.Intn(len(values))]
		}
		dist[i] = stat.Mean(draw, nil)
	}
	return dist, nil
}
