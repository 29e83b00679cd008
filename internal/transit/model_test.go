package transit

import (
	"math"
	"testing"
)

func testParams() Params {
	return Params{
		Period:        10.0,
		T0:            5.0,
		RadiusRatio:   0.1,
		SemiMajorAxis: 20.0,
		Inclination:   89.9,
		LimbDark1:     0.3,
		LimbDark2:     0.2,
	}
}

func TestFlux_UnityOutOfTransit(t *testing.T) {
	p := testParams()
	for _, dt := range []float64{0.5, 1.0, 2.5, 5.0} {
		if f := p.Flux(p.T0 + dt); f != 1 {
			t.Fatalf("Flux(t0+%v) = %v, want 1", dt, f)
		}
	}
}

func TestFlux_DipAtMidTransit(t *testing.T) {
	p := testParams()
	f := p.Flux(p.T0)
	depth := p.RadiusRatio * p.RadiusRatio
	// Limb darkening makes the central dip deeper than the geometric depth.
	if f >= 1-depth || f < 1-2*depth {
		t.Fatalf("Flux(t0) = %v, want within (%v, %v)", f, 1-2*depth, 1-depth)
	}
}

func TestFlux_SymmetricAroundT0(t *testing.T) {
	p := testParams()
	for _, dt := range []float64{0.005, 0.02, 0.05} {
		before := p.Flux(p.T0 - dt)
		after := p.Flux(p.T0 + dt)
		if math.Abs(before-after) > 1e-12 {
			t.Fatalf("Flux not symmetric at dt=%v: %v vs %v", dt, before, after)
		}
	}
}

func TestFlux_NoDipOnFarSideOfOrbit(t *testing.T) {
	p := testParams()
	// Half a period from t0 the planet is behind the star.
	if f := p.Flux(p.T0 + p.Period/2); f != 1 {
		t.Fatalf("Flux at secondary phase = %v, want 1", f)
	}
}

func TestDuration_Transiting(t *testing.T) {
	p := testParams()
	d := p.Duration()
	if math.IsNaN(d) || d <= 0 {
		t.Fatalf("Duration() = %v, want positive", d)
	}
	// T14 ~ P/pi * asin(sqrt((1+rp)^2 - b^2) / (a sin i)).
	if d > p.Period/4 {
		t.Fatalf("Duration() = %v implausibly long for a/Rs=%v", d, p.SemiMajorAxis)
	}

	// Flux at the contact edges should be at or near the baseline.
	if f := p.Flux(p.T0 + d/2*1.05); f != 1 {
		t.Fatalf("Flux just outside T14/2 = %v, want 1", f)
	}
	if f := p.Flux(p.T0 + d/4); f >= 1 {
		t.Fatalf("Flux inside transit = %v, want < 1", f)
	}
}

func TestDuration_NonTransitingIsNaN(t *testing.T) {
	p := testParams()
	p.Inclination = 80 // b = 20*cos(80 deg) ~ 3.5 > 1+rp
	if d := p.Duration(); !math.IsNaN(d) {
		t.Fatalf("Duration() = %v for non-transiting geometry, want NaN", d)
	}
}

func TestDuration_EccentricityShortensOrLengthens(t *testing.T) {
	p := testParams()
	circ := p.Duration()

	p.Eccentricity = 0.3
	p.Periastron = 90 // transit near periastron, planet moving fastest
	ecc := p.Duration()
	if !(ecc < circ) {
		t.Fatalf("duration with e=0.3, w=90 should shrink: circ=%v ecc=%v", circ, ecc)
	}
}

func TestReducedModel_MatchesDirectEvaluation(t *testing.T) {
	p := testParams()
	times := []float64{4.9, 4.95, 5.0, 5.05, 5.1}
	m, err := NewReducedModel(p, times)
	if err != nil {
		t.Fatalf("NewReducedModel returned error: %v", err)
	}

	depth := 0.0144 // rp = 0.12
	amp := 2.5e6
	got, err := m.Eval(5.01, depth, amp, nil)
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}

	direct := p
	direct.T0 = 5.01
	direct.RadiusRatio = math.Sqrt(depth)
	for i, tt := range times {
		want := amp * direct.Flux(tt)
		if math.Abs(got[i]-want) > 1e-6*amp {
			t.Fatalf("Eval[%d] = %v, want %v", i, got[i], want)
		}
	}
}

func TestReducedModel_DoesNotMutateBase(t *testing.T) {
	p := testParams()
	m, err := NewReducedModel(p, []float64{5.0})
	if err != nil {
		t.Fatalf("NewReducedModel returned error: %v", err)
	}
	if _, err := m.Eval(5.02, 0.04, 1.0, nil); err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if m.base.T0 != 5.0 || m.base.RadiusRatio != 0.1 {
		t.Fatalf("Eval mutated the base parameters: %+v", m.base)
	}
}

func TestReducedModel_RejectsNegativeDepth(t *testing.T) {
	m, err := NewReducedModel(testParams(), []float64{5.0})
	if err != nil {
		t.Fatalf("NewReducedModel returned error: %v", err)
	}
	if _, err := m.Eval(5.0, -0.01, 1.0, nil); err == nil {
		t.Fatal("expected error for negative depth")
	}
}

func TestCoveredFraction_FiniteAtTangency(t *testing.T) {
	// A separation within a few ulps of a tangency can slip past the
	// overlap guards while the Acos argument rounds just outside [-1, 1].
	const rp = 0.02
	for i := 0; i < annuli; i++ {
		r := (float64(i) + 0.5) / annuli
		for _, z := range []float64{
			math.Nextafter(r+rp, 0),
			math.Nextafter(math.Nextafter(r+rp, 0), 0),
			math.Nextafter(r-rp, 1),
			math.Nextafter(math.Nextafter(r-rp, 1), 1),
		} {
			if z <= 0 {
				continue
			}
			got := coveredFraction(r, z, rp)
			if math.IsNaN(got) || got < 0 || got > 1 {
				t.Fatalf("coveredFraction(r=%.20g, z=%.20g, rp=%g) = %v, want in [0, 1]", r, z, rp, got)
			}
		}
	}
}

func TestOccult_FiniteNearTangency(t *testing.T) {
	const rp = 0.02
	for i := 0; i < annuli; i++ {
		r := (float64(i) + 0.5) / annuli
		z := math.Nextafter(r+rp, 0)
		f := occult(z, rp, 0.3, 0.2)
		if math.IsNaN(f) || f <= 0 || f > 1 {
			t.Fatalf("occult(z=%.20g, rp=%g) = %v, want finite in (0, 1]", z, rp, f)
		}
	}
}

func TestCoveredFraction(t *testing.T) {
	tests := []struct {
		name       string
		r, z, rp   float64
		want       float64
		approxOnly bool
	}{
		{name: "fully_outside", r: 0.5, z: 0.9, rp: 0.1, want: 0},
		{name: "annulus_inside_planet", r: 0.05, z: 0.0, rp: 0.1, want: 1},
		{name: "planet_inside_annulus_radius", r: 0.9, z: 0.0, rp: 0.1, want: 0},
		{name: "half_covered", r: 0.5, z: 0.5, rp: 0.1, approxOnly: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coveredFraction(tt.r, tt.z, tt.rp)
			if tt.approxOnly {
				if got <= 0 || got >= 0.5 {
					t.Fatalf("coveredFraction = %v, want partial in (0, 0.5)", got)
				}
				return
			}
			if got != tt.want {
				t.Fatalf("coveredFraction = %v, want %v", got, tt.want)
			}
		})
	}
}
