package mcmc

import "fmt"

// Chain stores the full ensemble history: walkers x steps x dim.
type Chain struct {
	walkers int
	steps   int
	dim     int
	// samples[w][s] is the dim-length parameter vector of walker w at step s.
	samples [][][]float64
}

func newChain(walkers, steps, dim int) *Chain {
	samples := make([][][]float64, walkers)
	for w := range samples {
		samples[w] = make([][]float64, steps)
	}
	return &Chain{walkers: walkers, steps: steps, dim: dim, samples: samples}
}

func (c *Chain) record(step int, pos [][]float64) {
	for w := range pos {
		c.samples[w][step] = append([]float64(nil), pos[w]...)
	}
}

// Walkers returns the ensemble size.
func (c *Chain) Walkers() int { return c.walkers }

// Steps returns the chain length per walker.
func (c *Chain) Steps() int { return c.steps }

// Dim returns the parameter dimension.
func (c *Chain) Dim() int { return c.dim }

// BurnSteps converts a burn-in expressed as flattened samples into the
// number of steps to discard uniformly from every walker, rounding up. The
// same convention is used for percentile summaries and diagnostic plots.
func (c *Chain) BurnSteps(flattenedBurnIn int) int {
	if flattenedBurnIn <= 0 {
		return 0
	}
	return (flattenedBurnIn + c.walkers - 1) / c.walkers
}

// Flatten returns all post-burn-in samples across walkers, step-major, as a
// list of dim-length vectors. skipSteps counts steps discarded per walker.
func (c *Chain) Flatten(skipSteps int) ([][]float64, error) {
	if skipSteps < 0 {
		return nil, fmt.Errorf("chain: skip steps must be >= 0, got %d", skipSteps)
	}
	if skipSteps >= c.steps {
		return nil, fmt.Errorf("chain: burn-in of %d steps consumes the whole %d-step chain", skipSteps, c.steps)
	}
	out := make([][]float64, 0, (c.steps-skipSteps)*c.walkers)
	for s := skipSteps; s < c.steps; s++ {
		for w := 0; w < c.walkers; w++ {
			out = append(out, c.samples[w][s])
		}
	}
	return out, nil
}

// Column extracts one parameter's post-burn-in samples in flattened order.
func (c *Chain) Column(skipSteps, param int) ([]float64, error) {
	if param < 0 || param >= c.dim {
		return nil, fmt.Errorf("chain: parameter index %d out of range [0,%d)", param, c.dim)
	}
	flat, err := c.Flatten(skipSteps)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(flat))
	for i, v := range flat {
		out[i] = v[param]
	}
	return out, nil
}
