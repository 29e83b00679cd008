// Package flags defines canonical CLI flag names shared across the CLI.
// Keeping these as constants helps avoid drift between Cobra flag wiring and
// other code paths that need to reference flags (e.g. config file overrides).
// IMPORTANT: These are flag *names* without leading dashes.
package flags

const (
	// Target
	FlagSystem       = "system"
	FlagPlanets      = "planets"
	FlagSpectralType = "spectral-type"
	FlagMagnitude    = "magnitude"

	// Observation
	FlagExposure = "exposure"

	// Sampler
	FlagWalkers = "walkers"
	FlagSteps   = "steps"
	FlagBurnIn  = "burn-in"
	FlagSeed    = "seed"

	// Output
	FlagOutDir        = "out-dir"
	FlagConsoleFormat = "console-format"
	FlagOut           = "out"
	FlagOutFormat     = "out-format"
	FlagNoConsole     = "no-console"
	FlagNoPlots       = "no-plots"
	FlagDryRun        = "dry-run"

	// Config file
	FlagConfig = "config"
)
