// Package spectrum supplies the opaque instrument-side inputs of the
// simulation: a photon-count spectral template per stellar type, the
// instrument wavelength grid, a throughput curve, and a background model.
// The shapes are deliberately simple (a blackbody photon spectrum and a
// smooth throughput bell); the pipeline only relies on their photon budgets
// being plausible.
package spectrum

import (
	"fmt"
	"math"
	"strings"
)

// Grid is the fixed instrument wavelength grid in microns.
type Grid struct {
	Wavelengths []float64
}

const (
	pixels    = 512
	minMicron = 0.6
	maxMicron = 5.3
)

// Reference photon budget: total counts over the full grid for a J=10.0
// star in a 100 s exposure.
const (
	refCounts   = 5.0e7
	refMag      = 10.0
	refExposure = 100.0
)

// InstrumentGrid returns the NIR prism-style pixel grid, constant across a run.
func InstrumentGrid() Grid {
	w := make([]float64, pixels)
	step := (maxMicron - minMicron) / float64(pixels)
	for i := range w {
		w[i] = minMicron + (float64(i)+0.5)*step
	}
	return Grid{Wavelengths: w}
}

// TeffForType maps a spectral type to an effective temperature. Only the
// classes that appear in the built-in catalog (plus nearby ones) are known.
func TeffForType(spectralType string) (float64, error) {
	table := map[string]float64{
		"G2V": 5770,
		"K0V": 5250,
		"K2V": 4925,
		"K5V": 4400,
		"M1V": 3600,
		"M4V": 3150,
		"M8V": 2560,
	}
	t, ok := table[strings.ToUpper(strings.TrimSpace(spectralType))]
	if !ok {
		return 0, fmt.Errorf("unknown spectral type %q", spectralType)
	}
	return t, nil
}

// Counts returns the noiseless per-pixel photon counts of a star with the
// given effective temperature and J magnitude over one exposure (seconds).
// Throughput is not applied here; see Throughput.
func Counts(g Grid, teff, jmag, exposureSec float64) []float64 {
	shape := make([]float64, len(g.Wavelengths))
	var sum float64
	for i, w := range g.Wavelengths {
		shape[i] = photonRate(w, teff)
		sum += shape[i]
	}
	scale := refCounts * math.Pow(10, -0.4*(jmag-refMag)) * exposureSec / refExposure / sum
	out := make([]float64, len(shape))
	for i := range shape {
		out[i] = shape[i] * scale
	}
	return out
}

// photonRate is the relative blackbody photon emission rate at wavelength w
// (microns) for temperature teff: B_lambda / (hc/lambda) ~ lambda^-4 /
// (exp(hc/lambda k T) - 1).
func photonRate(w, teff float64) float64 {
	// hc/k in micron*Kelvin.
	const hckb = 14387.77
	x := hckb / (w * teff)
	return math.Pow(w, -4) / math.Expm1(x)
}

// Throughput returns the wavelength-dependent system throughput on (0, 1]:
// a smooth bell peaking mid-band with soft cutoffs at the grid edges.
func Throughput(g Grid) []float64 {
	out := make([]float64, len(g.Wavelengths))
	for i, w := range g.Wavelengths {
		u := (w - minMicron) / (maxMicron - minMicron)
		out[i] = 0.05 + 0.75*math.Sin(math.Pi*u)*math.Sin(math.Pi*u)
	}
	return out
}

// Background returns the additive background counts per pixel over one
// exposure: a flat zodiacal term plus a thermal term rising past 3 microns.
func Background(g Grid, exposureSec float64) []float64 {
	out := make([]float64, len(g.Wavelengths))
	for i, w := range g.Wavelengths {
		rate := 1.0 // counts/s/pixel, zodiacal floor
		if w > 3.0 {
			rate += 4.0 * (w - 3.0)
		}
		out[i] = rate * exposureSec
	}
	return out
}
