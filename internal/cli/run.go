package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"transim/internal/config"
	"transim/internal/flags"
	"transim/internal/logging"
	"transim/internal/pipeline"
)

var cfg = config.New()
var cfgFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate and fit the selected planets",
	Long: `Simulate synthetic transit photometry for the selected planets and recover
the mid-transit time of each with an affine-invariant ensemble sampler.

Pipeline (strictly sequential per planet):
  1. look up orbital parameters in the built-in catalog
  2. build the noiseless photon-count spectrum for the host star
  3. inject the transit signal and draw Poisson noise per wavelength pixel
  4. sum over wavelength into one light curve per exposure
  5. sample the 3-parameter posterior (t0, depth, amplitude)
  6. write percentile summaries, plots, and the timing-precision JSON

Output files (under --out-dir):
	posteriors/<system>/<planet>.png               corner plot
	posteriors/<system>/lightcurve_<planet>.png    light curve + fit envelope
	posteriors/<system>/time_solution_<planet>.txt median, +diff, -diff [d]
	photon_limited/<system>.json                   planet -> timing RMS [s]

Exit codes:
	0 = all fits completed
	2 = partial failure (a planet fit failed)
	3 = fatal error (run did not start)

Examples:
  # Defaults: all Kepler-62 planets, 100 s exposures, 6 walkers, 5000 steps
  transim run

  # One TRAPPIST-1 planet, reproducible seed, machine-readable stream
  transim run --system TRAPPIST-1 --planets b --seed 42 --no-console --out run.ndjson

  # Values from a YAML file, with flag overrides
  transim run --config run.yaml --steps 2000
`,
	Run: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			if err := applyFileConfig(cmd); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(3)
			}
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		log := logging.New(nil, cfg.Runtime.Verbose)
		pipe := pipeline.New(log)
		os.Exit(pipe.Run(context.Background(), cfg))
	},
}

// applyFileConfig loads the YAML config file and keeps any value the user
// set explicitly on the command line. Flags win over the file.
func applyFileConfig(cmd *cobra.Command) error {
	fileCfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return err
	}

	changed := func(name string) bool { return cmd.Flags().Changed(name) }

	if !changed(flags.FlagSystem) {
		cfg.Target.System = fileCfg.Target.System
	}
	if !changed(flags.FlagPlanets) {
		cfg.Target.Planets = fileCfg.Target.Planets
	}
	if !changed(flags.FlagSpectralType) {
		cfg.Target.SpectralType = fileCfg.Target.SpectralType
	}
	if !changed(flags.FlagMagnitude) {
		cfg.Target.Magnitude = fileCfg.Target.Magnitude
	}
	if !changed(flags.FlagExposure) {
		cfg.Observation.Exposure = fileCfg.Observation.Exposure
	}
	if !changed(flags.FlagWalkers) {
		cfg.Sampler.Walkers = fileCfg.Sampler.Walkers
	}
	if !changed(flags.FlagSteps) {
		cfg.Sampler.Steps = fileCfg.Sampler.Steps
	}
	if !changed(flags.FlagBurnIn) {
		cfg.Sampler.BurnIn = fileCfg.Sampler.BurnIn
	}
	if !changed(flags.FlagSeed) {
		cfg.Sampler.Seed = fileCfg.Sampler.Seed
	}
	if !changed(flags.FlagOutDir) {
		cfg.Output.Dir = fileCfg.Output.Dir
	}
	if !changed(flags.FlagConsoleFormat) {
		cfg.Output.ConsoleFormat = fileCfg.Output.ConsoleFormat
	}
	if !changed(flags.FlagOut) {
		cfg.Output.Out = fileCfg.Output.Out
	}
	if !changed(flags.FlagOutFormat) {
		cfg.Output.OutFormat = fileCfg.Output.OutFormat
	}
	if !changed(flags.FlagNoConsole) {
		cfg.Output.NoConsole = fileCfg.Output.NoConsole
	}
	if !changed(flags.FlagNoPlots) {
		cfg.Output.NoPlots = fileCfg.Output.NoPlots
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	// MAINTAINER NOTE: if you add/change/remove any run-affecting flags here,
	// keep internal/config and applyFileConfig above in sync.

	// Target
	runCmd.Flags().StringVar(&cfg.Target.System, flags.FlagSystem, cfg.Target.System, "Catalog system to simulate")
	runCmd.Flags().StringSliceVar(&cfg.Target.Planets, flags.FlagPlanets, nil, "Planet letters to fit (repeatable; comma-separated accepted; default: all)")
	runCmd.Flags().StringVar(&cfg.Target.SpectralType, flags.FlagSpectralType, "", "Override the host-star spectral type (default: catalog value)")
	runCmd.Flags().Float64Var(&cfg.Target.Magnitude, flags.FlagMagnitude, 0, "Override the apparent J magnitude (0 = catalog value)")

	// Observation
	runCmd.Flags().DurationVar(&cfg.Observation.Exposure, flags.FlagExposure, cfg.Observation.Exposure, "Exposure time per point (default: 100s)")

	// Sampler
	runCmd.Flags().IntVar(&cfg.Sampler.Walkers, flags.FlagWalkers, cfg.Sampler.Walkers, "Ensemble walkers (even, >= 6)")
	runCmd.Flags().IntVar(&cfg.Sampler.Steps, flags.FlagSteps, cfg.Sampler.Steps, "Sampler steps per walker")
	runCmd.Flags().IntVar(&cfg.Sampler.BurnIn, flags.FlagBurnIn, cfg.Sampler.BurnIn, "Flattened samples discarded as burn-in")
	runCmd.Flags().Uint64Var(&cfg.Sampler.Seed, flags.FlagSeed, 0, "Random seed (0 = time-derived)")

	// Output
	runCmd.Flags().StringVar(&cfg.Output.Dir, flags.FlagOutDir, cfg.Output.Dir, "Root directory for posteriors/ and photon_limited/")
	runCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, cfg.Output.ConsoleFormat, "Console output format: text|json|ndjson")
	runCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write a structured result stream to this path")
	runCmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	runCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --out)")
	runCmd.Flags().BoolVar(&cfg.Output.NoPlots, flags.FlagNoPlots, false, "Skip rendering the corner and light-curve plots")
	runCmd.Flags().BoolVar(&cfg.Output.DryRun, flags.FlagDryRun, false, "Resolve the system and print the planet plan without fitting")

	// Config file
	runCmd.Flags().StringVar(&cfgFile, flags.FlagConfig, "", "YAML config file (flags override file values)")
}
