// Package mcmc implements an affine-invariant ensemble sampler using the
// Goodman & Weare (2010) stretch move.
package mcmc

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
)

// LogProbFunc evaluates the log posterior density at theta. Returning an
// error aborts the run; return -Inf for ordinary rejection instead.
type LogProbFunc func(theta []float64) (float64, error)

// Sampler evolves an ensemble of walkers through parameter space.
type Sampler struct {
	walkers int
	dim     int
	logProb LogProbFunc
	rng     *rand.Rand

	// stretch is the Goodman-Weare scale parameter a.
	stretch float64
}

// NewSampler validates the ensemble shape. The stretch move requires at
// least 2*dim walkers, split into two halves of at least dim each.
func NewSampler(walkers, dim int, logProb LogProbFunc, src rand.Source) (*Sampler, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("sampler: dim must be >= 1, got %d", dim)
	}
	if walkers < 2*dim || walkers%2 != 0 {
		return nil, fmt.Errorf("sampler: walkers must be even and >= %d, got %d", 2*dim, walkers)
	}
	if logProb == nil {
		return nil, fmt.Errorf("sampler: log-prob function is nil")
	}
	if src == nil {
		return nil, fmt.Errorf("sampler: random source is nil")
	}
	return &Sampler{
		walkers: walkers,
		dim:     dim,
		logProb: logProb,
		rng:     rand.New(src),
		stretch: 2.0,
	}, nil
}

// Run advances the ensemble for the fixed number of steps and returns the
// full chain. start must hold one dim-length vector per walker. There is no
// convergence diagnostic; the step count is the sole governor of run length.
func (s *Sampler) Run(ctx context.Context, start [][]float64, steps int) (*Chain, error) {
	if len(start) != s.walkers {
		return nil, fmt.Errorf("sampler: got %d start positions, want %d", len(start), s.walkers)
	}
	if steps <= 0 {
		return nil, fmt.Errorf("sampler: steps must be >= 1, got %d", steps)
	}

	pos := make([][]float64, s.walkers)
	logP := make([]float64, s.walkers)
	for k, theta := range start {
		if len(theta) != s.dim {
			return nil, fmt.Errorf("sampler: start position %d has %d parameters, want %d", k, len(theta), s.dim)
		}
		pos[k] = append([]float64(nil), theta...)
		lp, err := s.logProb(pos[k])
		if err != nil {
			return nil, fmt.Errorf("sampler: initial log-prob for walker %d: %w", k, err)
		}
		logP[k] = lp
	}

	chain := newChain(s.walkers, steps, s.dim)
	half := s.walkers / 2

	for step := 0; step < steps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Update the two halves alternately so each proposal stretches
		// toward a walker from the complementary half.
		if err := s.updateHalf(ctx, pos, logP, 0, half); err != nil {
			return nil, err
		}
		if err := s.updateHalf(ctx, pos, logP, half, s.walkers); err != nil {
			return nil, err
		}
		chain.record(step, pos)
	}
	return chain, nil
}

// updateHalf proposes a stretch move for every walker in [lo, hi) against
// the complementary half. Proposal draws and accept/reject run on the
// sampler's single RNG; only the log-prob evaluations run concurrently.
func (s *Sampler) updateHalf(ctx context.Context, pos [][]float64, logP []float64, lo, hi int) error {
	n := hi - lo
	proposals := make([][]float64, n)
	zs := make([]float64, n)
	accepts := make([]float64, n)

	for i := 0; i < n; i++ {
		k := lo + i
		j := s.complementIndex(lo, hi)
		z := s.drawStretch()
		y := make([]float64, s.dim)
		for d := 0; d < s.dim; d++ {
			y[d] = pos[j][d] + z*(pos[k][d]-pos[j][d])
		}
		proposals[i] = y
		zs[i] = z
		accepts[i] = s.rng.Float64()
	}

	logProposed := make([]float64, n)
	g, _ := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			lp, err := s.logProb(proposals[i])
			if err != nil {
				return err
			}
			logProposed[i] = lp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("sampler: log-prob evaluation failed: %w", err)
	}

	for i := 0; i < n; i++ {
		k := lo + i
		logRatio := float64(s.dim-1)*math.Log(zs[i]) + logProposed[i] - logP[k]
		if math.Log(accepts[i]) < logRatio {
			pos[k] = proposals[i]
			logP[k] = logProposed[i]
		}
	}
	return nil
}

// complementIndex picks a random walker outside [lo, hi).
func (s *Sampler) complementIndex(lo, hi int) int {
	n := s.walkers - (hi - lo)
	j := s.rng.IntN(n)
	if j >= lo {
		j += hi - lo
	}
	return j
}

// drawStretch samples z from g(z) ~ 1/sqrt(z) on [1/a, a].
func (s *Sampler) drawStretch() float64 {
	a := s.stretch
	u := s.rng.Float64()
	v := (a-1)*u + 1
	return v * v / a
}
