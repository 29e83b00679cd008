package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	// MAINTAINER NOTE: if you add/change/remove fields that affect a run,
	// keep the CLI flags in internal/cli/run.go in sync.
	Target      Target      `yaml:"target"`
	Observation Observation `yaml:"observation"`
	Sampler     Sampler     `yaml:"sampler"`
	Output      Output      `yaml:"output"`
	Runtime     Runtime     `yaml:"runtime"`
}

type Target struct {
	// System is the catalog entry to simulate (see --system).
	System string `yaml:"system" default:"Kepler-62" validate:"required"`

	// Planets selects which planet letters to fit (see --planets).
	// Empty means every planet in the catalog entry. Values may be given as
	// repeated flags and/or comma-separated lists.
	Planets []string `yaml:"planets"`

	// SpectralType overrides the catalog host-star spectral type (see
	// --spectral-type). Empty means use the catalog value.
	SpectralType string `yaml:"spectral_type"`

	// Magnitude overrides the catalog J magnitude (see --magnitude).
	// Zero means use the catalog value.
	Magnitude float64 `yaml:"magnitude" validate:"gte=0"`
}

type Observation struct {
	// Exposure is the per-point exposure time (see --exposure).
	Exposure time.Duration `yaml:"exposure" default:"100s"`
}

type Sampler struct {
	// Walkers is the ensemble size (see --walkers). The 3-parameter model
	// requires an even count of at least 6.
	Walkers int `yaml:"walkers" default:"6"`

	// Steps is the fixed chain length per walker (see --steps).
	Steps int `yaml:"steps" default:"5000" validate:"gt=0"`

	// BurnIn is the number of flattened samples discarded before summaries
	// (see --burn-in). It is converted to a uniform per-walker step count.
	BurnIn int `yaml:"burn_in" default:"5000" validate:"gte=0"`

	// Seed seeds the random source (see --seed). 0 means time-derived.
	Seed uint64 `yaml:"seed"`
}

type Output struct {
	// Dir is the root under which posteriors/ and photon_limited/ are
	// written (see --out-dir).
	Dir string `yaml:"dir" default:"."`

	// ConsoleFormat controls the console sink (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string `yaml:"console_format" default:"text"`

	// Out writes a structured result stream to this path (see --out).
	Out string `yaml:"out"`

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, inferred from the extension.
	OutFormat string `yaml:"out_format"`

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool `yaml:"no_console"`

	// NoPlots skips rendering the corner and light-curve PNGs (see --no-plots).
	NoPlots bool `yaml:"no_plots"`

	// DryRun resolves the system and prints the planet plan without fitting
	// (see --dry-run).
	DryRun bool `yaml:"-"`
}

type Runtime struct {
	// Verbose enables debug-level logging.
	Verbose bool `yaml:"verbose"`
}

func New() *Config {
	c := &Config{}
	// The default tags cover every field; Set only fails on malformed tags.
	if err := defaults.Set(c); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return c
}

var validate = validator.New()

func (c *Config) Validate() error {
	c.Target.Planets = splitCommaList(c.Target.Planets)

	if err := validate.Struct(c); err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) && len(verr) > 0 {
			f := verr[0]
			return fmt.Errorf("invalid config field %s: failed %q constraint", f.Namespace(), f.Tag())
		}
		return err
	}

	if c.Observation.Exposure <= 0 {
		return errors.New("--exposure must be > 0")
	}

	// The stretch move needs two halves of at least one walker per
	// parameter each.
	if c.Sampler.Walkers < 6 || c.Sampler.Walkers%2 != 0 {
		return fmt.Errorf("--walkers must be even and >= 6, got %d", c.Sampler.Walkers)
	}
	burnSteps := (c.Sampler.BurnIn + c.Sampler.Walkers - 1) / c.Sampler.Walkers
	if burnSteps >= c.Sampler.Steps {
		return fmt.Errorf("--burn-in of %d flattened samples discards all %d steps for %d walkers",
			c.Sampler.BurnIn, c.Sampler.Steps, c.Sampler.Walkers)
	}

	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	switch c.Output.ConsoleFormat {
	case "text", "json", "ndjson":
	default:
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat != "" && c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
			return fmt.Errorf("unsupported --out-format: %s (must be one of: json, ndjson)", c.Output.OutFormat)
		}
	}

	return nil
}

// BurnSteps is the per-walker burn-in step count implied by the flattened
// burn-in configuration.
func (c *Config) BurnSteps() int {
	return (c.Sampler.BurnIn + c.Sampler.Walkers - 1) / c.Sampler.Walkers
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
