// Package transit computes limb-darkened transit light curves and transit
// geometry for a planet on a (near-)circular orbit.
package transit

import (
	"fmt"
	"math"

	"transim/internal/catalog"
)

// Params are the orbital and stellar parameters the light-curve model needs.
// Times are in days, angles in degrees.
type Params struct {
	Period        float64
	T0            float64
	RadiusRatio   float64
	SemiMajorAxis float64 // a/Rs
	Inclination   float64
	Eccentricity  float64
	Periastron    float64
	LimbDark1     float64
	LimbDark2     float64
}

// FromCatalog combines a catalog planet with its host star's limb darkening.
func FromCatalog(p catalog.Planet, s catalog.Star) Params {
	return Params{
		Period:        p.Period,
		T0:            p.T0,
		RadiusRatio:   p.RadiusRatio,
		SemiMajorAxis: p.SemiMajorAxis,
		Inclination:   p.Inclination,
		Eccentricity:  p.Eccentricity,
		Periastron:    p.Periastron,
		LimbDark1:     s.LimbDark1,
		LimbDark2:     s.LimbDark2,
	}
}

// separation returns the projected star-planet separation in stellar radii
// at time t, or +Inf on the far side of the orbit (no primary transit).
func (p Params) separation(t float64) float64 {
	theta := 2 * math.Pi * (t - p.T0) / p.Period
	cosTheta := math.Cos(theta)
	if cosTheta <= 0 {
		return math.Inf(1)
	}
	inc := p.Inclination * math.Pi / 180
	sin2 := math.Sin(theta) * math.Sin(theta)
	cos2i := math.Cos(inc) * math.Cos(inc)
	return p.SemiMajorAxis * math.Sqrt(sin2+cos2i*cosTheta*cosTheta)
}

// Flux returns the relative flux (1.0 out of transit) at time t.
func (p Params) Flux(t float64) float64 {
	return occult(p.separation(t), p.RadiusRatio, p.LimbDark1, p.LimbDark2)
}

// Curve evaluates Flux at each time, reusing dst when it has the right length.
func (p Params) Curve(times []float64, dst []float64) []float64 {
	if len(dst) != len(times) {
		dst = make([]float64, len(times))
	}
	for i, t := range times {
		dst[i] = p.Flux(t)
	}
	return dst
}

// Duration returns the total transit duration (first to fourth contact) in
// days, or NaN for a non-transiting geometry.
func (p Params) Duration() float64 {
	inc := p.Inclination * math.Pi / 180
	b := p.SemiMajorAxis * math.Cos(inc)
	lim := 1 + p.RadiusRatio
	arg := math.Sqrt(lim*lim-b*b) / (p.SemiMajorAxis * math.Sin(inc))
	if math.IsNaN(arg) || arg > 1 {
		return math.NaN()
	}
	d := p.Period / math.Pi * math.Asin(arg)
	if p.Eccentricity > 0 {
		w := p.Periastron * math.Pi / 180
		d *= math.Sqrt(1-p.Eccentricity*p.Eccentricity) / (1 + p.Eccentricity*math.Sin(w))
	}
	return d
}

// annuli is the radial resolution of the occultation integral. 400 rings
// keep the model error well below the photon noise of a single exposure.
const annuli = 400

// occult integrates the quadratic limb-darkening profile over the stellar
// disk and returns the relative flux for a planet of radius ratio rp at
// projected separation z.
func occult(z, rp, u1, u2 float64) float64 {
	if rp <= 0 || math.IsInf(z, 1) || z >= 1+rp {
		return 1
	}
	var total, blocked float64
	for i := 0; i < annuli; i++ {
		r := (float64(i) + 0.5) / annuli
		w := intensity(r, u1, u2) * r
		total += w
		blocked += w * coveredFraction(r, z, rp)
	}
	return 1 - blocked/total
}

// intensity is the quadratic limb-darkening law, unnormalized.
func intensity(r, u1, u2 float64) float64 {
	mu := math.Sqrt(1 - r*r)
	return 1 - u1*(1-mu) - u2*(1-mu)*(1-mu)
}

// coveredFraction returns the fraction of the circle of radius r (centered
// on the star) that falls inside the planet disk of radius rp centered at
// separation z.
func coveredFraction(r, z, rp float64) float64 {
	if z >= r+rp || r >= z+rp {
		return 0
	}
	if z+r <= rp {
		return 1
	}
	// Near tangency the quotient can round just past +/-1; clamp it so Acos
	// stays in its domain.
	arg := (z*z + r*r - rp*rp) / (2 * z * r)
	halfAngle := math.Acos(math.Max(-1, math.Min(1, arg)))
	return halfAngle / math.Pi
}

// ReducedModel is the 3-parameter fit reparameterization: mid-transit time,
// transit depth (rp^2), and an overall flux amplitude. All other orbital
// elements stay fixed at their catalog values; Eval derives a temporary
// parameter value instead of mutating shared state.
type ReducedModel struct {
	base  Params
	times []float64
}

// NewReducedModel binds the fixed parameters and observation times.
func NewReducedModel(base Params, times []float64) (*ReducedModel, error) {
	if base.Period <= 0 {
		return nil, fmt.Errorf("reduced model: period must be positive, got %g", base.Period)
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("reduced model: no observation times")
	}
	return &ReducedModel{base: base, times: times}, nil
}

// Times returns the bound observation epochs.
func (m *ReducedModel) Times() []float64 { return m.times }

// Eval computes amp * lightcurve(t; t0, rp=sqrt(depth)) at every bound time.
// dst is reused when it has the right length.
func (m *ReducedModel) Eval(t0, depth, amp float64, dst []float64) ([]float64, error) {
	if depth < 0 {
		return nil, fmt.Errorf("reduced model: negative depth %g", depth)
	}
	p := m.base
	p.T0 = t0
	p.RadiusRatio = math.Sqrt(depth)
	dst = p.Curve(m.times, dst)
	for i := range dst {
		dst[i] *= amp
	}
	return dst, nil
}
