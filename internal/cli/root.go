package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "transim",
	Short: "Simulate photon-limited transit timing for catalog planetary systems",
	Long: `transim simulates synthetic near-infrared time-series photometry for the
transiting planets of a catalog system, injects the transit signal, adds
Poisson noise, and recovers the mid-transit time with an ensemble MCMC
sampler.

Examples:
	# Show available commands and global flags
	transim --help

	# Fit every Kepler-62 planet with the defaults
	transim run --system Kepler-62

	# List the built-in catalog
	transim catalog list

	# Print build info
	transim version

Output:
	By default, commands write human-readable output to stdout. The run
	command also writes posteriors/ and photon_limited/ under --out-dir
	(see "transim run --help").`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose logging (debug-level diagnostics per pipeline stage)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
