package plotting

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"transim/internal/synth"
)

func TestCorner_WritesPNG(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	flat := make([][]float64, 500)
	for i := range flat {
		flat[i] = []float64{
			5 + 0.01*rng.NormFloat64(),
			4e-4 + 1e-5*rng.NormFloat64(),
			1e7 * (1 + 1e-4*rng.NormFloat64()),
		}
	}

	path := filepath.Join(t.TempDir(), "b.png")
	if err := Corner(flat, []string{"t0 [d]", "depth", "amplitude"}, path); err != nil {
		t.Fatalf("Corner returned error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat corner plot: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("corner plot is empty")
	}
}

func TestCorner_ValidatesInputs(t *testing.T) {
	if err := Corner(nil, []string{"a"}, "x.png"); err == nil {
		t.Fatal("expected error for no samples")
	}
	if err := Corner([][]float64{{1, 2}}, []string{"a"}, "x.png"); err == nil {
		t.Fatal("expected error for label/parameter mismatch")
	}
}

func TestLightCurve_WritesPNG(t *testing.T) {
	n := 50
	lc := synth.LightCurve{
		Time:  make([]float64, n),
		Flux:  make([]float64, n),
		Sigma: make([]float64, n),
	}
	env := make([]float64, n)
	for i := range lc.Time {
		lc.Time[i] = float64(i) * 0.001
		lc.Flux[i] = 1e6
		lc.Sigma[i] = 1e3
		env[i] = 1e6
	}

	path := filepath.Join(t.TempDir(), "lightcurve_b.png")
	if err := LightCurve(lc, [][]float64{env}, path); err != nil {
		t.Fatalf("LightCurve returned error: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("light curve plot missing or empty: %v", err)
	}
}

func TestLightCurve_RejectsMismatchedEnvelope(t *testing.T) {
	lc := synth.LightCurve{Time: []float64{1, 2}, Flux: []float64{1, 1}, Sigma: []float64{1, 1}}
	if err := LightCurve(lc, [][]float64{{1}}, filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Fatal("expected error for envelope length mismatch")
	}
}
