// Package fit assembles the 3-parameter transit-timing posterior: the
// reduced transit model, a flat bounded prior, and a chi-square likelihood
// with sqrt(N) uncertainties, and runs the ensemble sampler over it.
package fit

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"transim/internal/mcmc"
	"transim/internal/synth"
	"transim/internal/transit"
)

// Parameter order in every theta vector.
const (
	ParamT0 = iota
	ParamDepth
	ParamAmp
	NumParams
)

// Labels for plots and reports, index-aligned with the Param constants.
var Labels = [NumParams]string{"t0 [d]", "depth", "amplitude"}

// Prior is a flat prior over a box around the catalog-derived guess:
// t0 within +/-0.1 d of the catalog epoch, depth within [0.25, 2.25] times
// the catalog depth, amplitude within +/-0.1% of the median observed flux.
// Edges count as outside.
type Prior struct {
	T0Lo, T0Hi       float64
	DepthLo, DepthHi float64
	AmpLo, AmpHi     float64
}

// NewPrior derives the prior box from the fixed catalog parameters and the
// observed light curve. A non-finite or non-positive catalog depth is a
// malformed problem and fails fast rather than producing a silent -Inf wall.
func NewPrior(init transit.Params, medianFlux float64) (Prior, error) {
	depth := init.RadiusRatio * init.RadiusRatio
	if !(depth > 0) || math.IsInf(depth, 0) {
		return Prior{}, fmt.Errorf("prior: catalog depth rp^2 = %g is not a positive finite number (rp = %g)", depth, init.RadiusRatio)
	}
	if !(medianFlux > 0) || math.IsInf(medianFlux, 0) {
		return Prior{}, fmt.Errorf("prior: median observed flux %g is not a positive finite number", medianFlux)
	}
	return Prior{
		T0Lo:    init.T0 - 0.1,
		T0Hi:    init.T0 + 0.1,
		DepthLo: 0.25 * depth,
		DepthHi: 2.25 * depth,
		AmpLo:   medianFlux * (1 - 0.001),
		AmpHi:   medianFlux * (1 + 0.001),
	}, nil
}

// LogPrior returns 0 strictly inside the box and -Inf otherwise.
func (p Prior) LogPrior(theta []float64) float64 {
	t0, depth, amp := theta[ParamT0], theta[ParamDepth], theta[ParamAmp]
	if t0 <= p.T0Lo || t0 >= p.T0Hi {
		return math.Inf(-1)
	}
	if depth <= p.DepthLo || depth >= p.DepthHi {
		return math.Inf(-1)
	}
	if amp <= p.AmpLo || amp >= p.AmpHi {
		return math.Inf(-1)
	}
	return 0
}

// Problem is one planet's posterior: data, model, and prior.
type Problem struct {
	LC    synth.LightCurve
	Model *transit.ReducedModel
	Prior Prior
}

// NewProblem wires the reduced model and prior for one light curve.
func NewProblem(base transit.Params, lc synth.LightCurve) (*Problem, error) {
	model, err := transit.NewReducedModel(base, lc.Time)
	if err != nil {
		return nil, err
	}
	prior, err := NewPrior(base, lc.MedianFlux())
	if err != nil {
		return nil, err
	}
	return &Problem{LC: lc, Model: model, Prior: prior}, nil
}

// LogLikelihood is -chi^2/2 against the observed counts with sigma =
// sqrt(counts). NaN residuals (for example zero-count bins) contribute
// nothing rather than poisoning the sum.
func (pr *Problem) LogLikelihood(theta []float64) (float64, error) {
	model, err := pr.Model.Eval(theta[ParamT0], theta[ParamDepth], theta[ParamAmp], nil)
	if err != nil {
		return 0, err
	}
	var chi2 float64
	for i, m := range model {
		r := (pr.LC.Flux[i] - m) / pr.LC.Sigma[i]
		if math.IsNaN(r) {
			continue
		}
		chi2 += r * r
	}
	return -0.5 * chi2, nil
}

// LogProb is the posterior density handed to the sampler. Out-of-bounds
// proposals short-circuit without evaluating the model.
func (pr *Problem) LogProb(theta []float64) (float64, error) {
	lp := pr.Prior.LogPrior(theta)
	if math.IsInf(lp, -1) {
		return lp, nil
	}
	ll, err := pr.LogLikelihood(theta)
	if err != nil {
		return 0, err
	}
	return lp + ll, nil
}

// InitialGuess is the catalog-derived center of the walker ball.
func (pr *Problem) InitialGuess(base transit.Params) []float64 {
	return []float64{
		base.T0,
		base.RadiusRatio * base.RadiusRatio,
		pr.LC.MedianFlux(),
	}
}

// InitialBall perturbs the guess with small independent Gaussian noise per
// walker. Scales are a small fraction of each prior half-width so every
// walker starts strictly inside the box.
func (pr *Problem) InitialBall(guess []float64, walkers int, src rand.Source) [][]float64 {
	scales := []float64{
		(pr.Prior.T0Hi - pr.Prior.T0Lo) * 1e-3,
		(pr.Prior.DepthHi - pr.Prior.DepthLo) * 1e-3,
		(pr.Prior.AmpHi - pr.Prior.AmpLo) * 1e-3,
	}
	ball := make([][]float64, walkers)
	for w := range ball {
		theta := make([]float64, NumParams)
		for d := range theta {
			n := distuv.Normal{Mu: guess[d], Sigma: scales[d], Src: src}
			theta[d] = n.Rand()
		}
		ball[w] = theta
	}
	return ball
}

// Options control one sampling run.
type Options struct {
	Walkers int
	Steps   int
	Seed    uint64
}

// Run executes the full fit for one planet and returns the chain.
func Run(ctx context.Context, base transit.Params, lc synth.LightCurve, opts Options) (*mcmc.Chain, *Problem, error) {
	problem, err := NewProblem(base, lc)
	if err != nil {
		return nil, nil, err
	}
	src := rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)
	sampler, err := mcmc.NewSampler(opts.Walkers, NumParams, problem.LogProb, src)
	if err != nil {
		return nil, nil, err
	}
	start := problem.InitialBall(problem.InitialGuess(base), opts.Walkers, src)
	chain, err := sampler.Run(ctx, start, opts.Steps)
	if err != nil {
		return nil, nil, err
	}
	return chain, problem, nil
}
