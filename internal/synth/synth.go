// Package synth builds the synthetic observation: a time grid around one
// transit, the injected transit signal, Poisson photon noise per wavelength
// pixel, and the wavelength-summed light curve the sampler fits.
package synth

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"transim/internal/transit"
)

// DefaultDuration is the fallback transit window half-scale used when the
// geometry yields no defined duration: 2 hours, in days.
const DefaultDuration = 2.0 / 24.0

// LightCurve is the fitted data: epochs, wavelength-summed counts, and the
// shot-noise estimate sqrt(counts) per point.
type LightCurve struct {
	Time  []float64
	Flux  []float64
	Sigma []float64
}

// MedianFlux returns the median of the summed counts.
func (lc LightCurve) MedianFlux() float64 {
	if len(lc.Flux) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), lc.Flux...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return 0.5 * (sorted[n/2-1] + sorted[n/2])
}

// TimeGrid returns epochs spanning [t0-2D, t0+2D) at the exposure cadence.
// A NaN or non-positive duration falls back to DefaultDuration so the window
// stays well-defined for grazing or non-transiting geometries.
func TimeGrid(t0, duration, exposureSec float64) ([]float64, error) {
	if exposureSec <= 0 {
		return nil, fmt.Errorf("time grid: exposure must be positive, got %g s", exposureSec)
	}
	d := duration
	if math.IsNaN(d) || d <= 0 {
		d = DefaultDuration
	}
	step := exposureSec / 86400.0
	start := t0 - 2*d
	end := t0 + 2*d
	n := int(math.Ceil((end - start) / step))
	times := make([]float64, 0, n)
	for i := 0; ; i++ {
		t := start + float64(i)*step
		if t >= end {
			break
		}
		times = append(times, t)
	}
	return times, nil
}

// Observation bundles the noiseless per-pixel inputs of one synthetic run.
type Observation struct {
	Params     transit.Params
	Template   []float64 // noiseless counts per pixel per exposure
	Throughput []float64 // system throughput per pixel
	Background []float64 // background counts per pixel per exposure
}

// Synthesize draws one noisy light curve: per epoch, the transit factor
// modulates the template counts through the throughput curve, background is
// added, and a Poisson deviate is drawn per pixel before summing over
// wavelength. Counts are non-negative integers by construction.
func Synthesize(obs Observation, times []float64, src rand.Source) (LightCurve, error) {
	if len(obs.Template) == 0 {
		return LightCurve{}, fmt.Errorf("synthesize: empty spectral template")
	}
	if len(obs.Throughput) != len(obs.Template) || len(obs.Background) != len(obs.Template) {
		return LightCurve{}, fmt.Errorf("synthesize: template/throughput/background length mismatch (%d/%d/%d)",
			len(obs.Template), len(obs.Throughput), len(obs.Background))
	}
	if len(times) == 0 {
		return LightCurve{}, fmt.Errorf("synthesize: empty time grid")
	}

	lc := LightCurve{
		Time:  append([]float64(nil), times...),
		Flux:  make([]float64, len(times)),
		Sigma: make([]float64, len(times)),
	}
	for i, t := range times {
		factor := obs.Params.Flux(t)
		var sum float64
		for j := range obs.Template {
			rate := obs.Template[j]*obs.Throughput[j]*factor + obs.Background[j]
			if rate <= 0 {
				continue
			}
			sum += distuv.Poisson{Lambda: rate, Src: src}.Rand()
		}
		lc.Flux[i] = sum
		lc.Sigma[i] = math.Sqrt(sum)
	}
	return lc, nil
}

// NoiselessCurve returns the expected (Poisson rate) light curve for the
// same inputs, used by tests and for fit envelopes.
func NoiselessCurve(obs Observation, times []float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		factor := obs.Params.Flux(t)
		var sum float64
		for j := range obs.Template {
			sum += obs.Template[j]*obs.Throughput[j]*factor + obs.Background[j]
		}
		out[i] = sum
	}
	return out
}
