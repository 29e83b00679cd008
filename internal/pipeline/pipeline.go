// Package pipeline orchestrates a full simulation run: resolve the catalog
// entry, synthesize one noisy light curve per planet, fit it with the
// ensemble sampler, summarize the posterior, and persist per-planet and
// per-system outputs. Planets are processed strictly sequentially.
package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"transim/internal/catalog"
	"transim/internal/config"
	"transim/internal/fit"
	"transim/internal/output"
	"transim/internal/plotting"
	"transim/internal/spectrum"
	"transim/internal/summary"
	"transim/internal/synth"
	"transim/internal/transit"
)

// envelopeDraws is how many random posterior samples are overlaid on the
// light-curve plot.
const envelopeDraws = 100

func exitCodeForRun(fatal, partial bool) int {
	// Exit code contract:
	// 0 = all fits completed
	// 2 = partial failure (a planet fit failed)
	// 3 = fatal error (run did not start)
	if fatal {
		return 3
	}
	if partial {
		return 2
	}
	return 0
}

func setupOutputManager(cfg *config.Config) (*output.Manager, error) {
	outMgr := output.NewManager()

	if !cfg.Output.NoConsole {
		if err := outMgr.AddSink(output.NewConsoleSink(nil, cfg.Output.ConsoleFormat)); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

type Pipeline struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Pipeline {
	return &Pipeline{log: log}
}

// resolvePlanets maps the configured letters onto catalog planets, defaulting
// to the whole system.
func resolvePlanets(system catalog.System, letters []string) ([]catalog.Planet, error) {
	if len(letters) == 0 {
		return system.Planets, nil
	}
	out := make([]catalog.Planet, 0, len(letters))
	for _, l := range letters {
		p, ok := system.Planet(l)
		if !ok {
			return nil, fmt.Errorf("system %s has no planet %q (has: %v)", system.Name, l, system.Letters())
		}
		out = append(out, p)
	}
	return out, nil
}

// starInputs resolves the host-star spectral inputs, honoring config
// overrides for spectral type and magnitude.
func starInputs(star catalog.Star, cfg *config.Config) (teff, jmag float64, err error) {
	teff = star.Teff
	if cfg.Target.SpectralType != "" {
		teff, err = spectrum.TeffForType(cfg.Target.SpectralType)
		if err != nil {
			return 0, 0, err
		}
	}
	jmag = star.JMag
	if cfg.Target.Magnitude != 0 {
		jmag = cfg.Target.Magnitude
	}
	return teff, jmag, nil
}

func maybeDryRun(cfg *config.Config, system catalog.System, planets []catalog.Planet, star catalog.Star) bool {
	if !cfg.Output.DryRun {
		return false
	}
	fmt.Printf("System %s (%s, J=%.2f), %d planet(s):\n", system.Name, star.SpectralType, star.JMag, len(planets))
	for _, p := range planets {
		d := transit.FromCatalog(p, star).Duration()
		fmt.Printf("  %s  P=%.5f d  t0=%.5f d  rp=%.4f  duration=%.4f d\n", p.Letter, p.Period, p.T0, p.RadiusRatio, d)
	}
	return true
}

// Run executes the configured run and returns the process exit code.
func (p *Pipeline) Run(ctx context.Context, cfg *config.Config) int {
	system, err := catalog.Resolve(cfg.Target.System)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCodeForRun(true, false)
	}
	planets, err := resolvePlanets(system, cfg.Target.Planets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCodeForRun(true, false)
	}

	if maybeDryRun(cfg, system, planets, system.Star) {
		return 0
	}

	teff, jmag, err := starInputs(system.Star, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCodeForRun(true, false)
	}

	outMgr, err := setupOutputManager(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output sinks: %v\n", err)
		return exitCodeForRun(true, false)
	}
	defer outMgr.Close()

	seed := cfg.Sampler.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	p.log.Info().
		Str("system", system.Name).
		Int("planets", len(planets)).
		Float64("teff", teff).
		Float64("jmag", jmag).
		Uint64("seed", seed).
		Msg("starting run")

	_ = outMgr.Write(output.Event{Type: "run.started", System: system.Name, Planets: len(planets)})

	rms, partial := p.fitPlanets(ctx, cfg, system, planets, teff, jmag, seed, outMgr)

	if len(rms) > 0 {
		jsonPath := filepath.Join(cfg.Output.Dir, "photon_limited", system.Name+".json")
		if err := summary.WriteTimingJSON(jsonPath, rms); err != nil {
			p.log.Error().Err(err).Msg("writing timing summary")
			partial = true
		} else {
			p.log.Info().Str("path", jsonPath).Msg("wrote timing summary")
		}
	}

	code := exitCodeForRun(false, partial)
	_ = outMgr.Write(output.Event{Type: "run.finished", System: system.Name, ExitCode: code})
	return code
}

// fitPlanets runs the per-planet sequence and returns the timing RMS map for
// every planet that completed. A failed fit aborts the remaining planets.
func (p *Pipeline) fitPlanets(ctx context.Context, cfg *config.Config, system catalog.System, planets []catalog.Planet, teff, jmag float64, seed uint64, outMgr *output.Manager) (map[string]float64, bool) {
	grid := spectrum.InstrumentGrid()
	exposureSec := cfg.Observation.Exposure.Seconds()
	template := spectrum.Counts(grid, teff, jmag, exposureSec)
	throughput := spectrum.Throughput(grid)
	background := spectrum.Background(grid, exposureSec)

	rms := make(map[string]float64, len(planets))
	for i, planet := range planets {
		_ = outMgr.Write(output.Event{Type: "planet.started", System: system.Name, Planet: planet.Letter})

		res, err := p.fitOne(ctx, cfg, system, planet, template, throughput, background, exposureSec, seed+uint64(i))
		if err != nil {
			_ = outMgr.Write(output.Result{
				System:  system.Name,
				Planet:  planet.Letter,
				Status:  output.StatusError,
				Message: err.Error(),
			})
			p.log.Error().Err(err).Str("planet", planet.Letter).Msg("fit failed, aborting run")
			return rms, true
		}

		rms[planet.Letter] = res.TimingRMSSeconds
		_ = outMgr.Write(res)
		_ = outMgr.Write(output.Event{Type: "planet.finished", System: system.Name, Planet: planet.Letter})
	}
	return rms, false
}

// fitOne synthesizes, fits, summarizes, and persists a single planet.
func (p *Pipeline) fitOne(ctx context.Context, cfg *config.Config, system catalog.System, planet catalog.Planet, template, throughput, background []float64, exposureSec float64, seed uint64) (output.Result, error) {
	params := transit.FromCatalog(planet, system.Star)
	duration := params.Duration()
	times, err := synth.TimeGrid(params.T0, duration, exposureSec)
	if err != nil {
		return output.Result{}, err
	}
	p.log.Debug().
		Str("planet", planet.Letter).
		Float64("duration_d", duration).
		Int("exposures", len(times)).
		Msg("synthesizing observations")

	obs := synth.Observation{
		Params:     params,
		Template:   template,
		Throughput: throughput,
		Background: background,
	}
	noiseSrc := rand.NewPCG(seed, seed^0xda3e39cb94b95bdb)
	lc, err := synth.Synthesize(obs, times, noiseSrc)
	if err != nil {
		return output.Result{}, err
	}

	chain, problem, err := fit.Run(ctx, params, lc, fit.Options{
		Walkers: cfg.Sampler.Walkers,
		Steps:   cfg.Sampler.Steps,
		Seed:    seed,
	})
	if err != nil {
		return output.Result{}, fmt.Errorf("planet %s: %w", planet.Letter, err)
	}

	flat, err := chain.Flatten(chain.BurnSteps(cfg.Sampler.BurnIn))
	if err != nil {
		return output.Result{}, fmt.Errorf("planet %s: %w", planet.Letter, err)
	}

	sums := make([]summary.Param, fit.NumParams)
	for d := 0; d < fit.NumParams; d++ {
		col := make([]float64, len(flat))
		for i, v := range flat {
			col[i] = v[d]
		}
		sums[d], err = summary.Summarize(col)
		if err != nil {
			return output.Result{}, fmt.Errorf("planet %s: %w", planet.Letter, err)
		}
	}

	outDir := filepath.Join(cfg.Output.Dir, "posteriors", system.Name)
	solutionPath := filepath.Join(outDir, "time_solution_"+planet.Letter+".txt")
	if err := summary.WriteTimeSolution(solutionPath, sums[fit.ParamT0]); err != nil {
		return output.Result{}, err
	}

	if !cfg.Output.NoPlots {
		if err := p.renderPlots(outDir, planet.Letter, flat, lc, problem, seed); err != nil {
			return output.Result{}, err
		}
	}

	return output.Result{
		System:           system.Name,
		Planet:           planet.Letter,
		Status:           output.StatusOK,
		T0:               &sums[fit.ParamT0],
		Depth:            &sums[fit.ParamDepth],
		Amplitude:        &sums[fit.ParamAmp],
		TimingRMSSeconds: summary.TimingRMSSeconds(sums[fit.ParamT0]),
	}, nil
}

func (p *Pipeline) renderPlots(outDir, letter string, flat [][]float64, lc synth.LightCurve, problem *fit.Problem, seed uint64) error {
	cornerPath := filepath.Join(outDir, letter+".png")
	if err := plotting.Corner(flat, fit.Labels[:], cornerPath); err != nil {
		return err
	}

	envelope, err := posteriorEnvelope(flat, problem, seed)
	if err != nil {
		return err
	}
	lcPath := filepath.Join(outDir, "lightcurve_"+letter+".png")
	if err := plotting.LightCurve(lc, envelope, lcPath); err != nil {
		return err
	}
	p.log.Debug().Str("planet", letter).Str("dir", outDir).Msg("wrote plots")
	return nil
}

// posteriorEnvelope evaluates the reduced model at random posterior draws
// for the fit-overlay plot.
func posteriorEnvelope(flat [][]float64, problem *fit.Problem, seed uint64) ([][]float64, error) {
	n := envelopeDraws
	if n > len(flat) {
		n = len(flat)
	}
	rng := rand.New(rand.NewPCG(seed, seed^0xa0761d6478bd642f))
	curves := make([][]float64, 0, n)
	for i := 0; i < n; i++ {
		theta := flat[rng.IntN(len(flat))]
		curve, err := problem.Model.Eval(theta[fit.ParamT0], theta[fit.ParamDepth], theta[fit.ParamAmp], nil)
		if err != nil {
			return nil, err
		}
		curves = append(curves, curve)
	}
	return curves, nil
}
