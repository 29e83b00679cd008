package spectrum

import (
	"math"
	"testing"
)

func TestInstrumentGrid(t *testing.T) {
	g := InstrumentGrid()
	if len(g.Wavelengths) != 512 {
		t.Fatalf("grid has %d pixels, want 512", len(g.Wavelengths))
	}
	if g.Wavelengths[0] <= 0.6 || g.Wavelengths[len(g.Wavelengths)-1] >= 5.3 {
		t.Fatalf("pixel centers [%v, %v] fall outside the open band (0.6, 5.3)",
			g.Wavelengths[0], g.Wavelengths[len(g.Wavelengths)-1])
	}
	for i := 1; i < len(g.Wavelengths); i++ {
		if g.Wavelengths[i] <= g.Wavelengths[i-1] {
			t.Fatalf("grid not strictly increasing at %d", i)
		}
	}
}

func TestTeffForType(t *testing.T) {
	got, err := TeffForType(" k2v ")
	if err != nil {
		t.Fatalf("TeffForType returned error: %v", err)
	}
	if got != 4925 {
		t.Fatalf("Teff(K2V) = %v, want 4925", got)
	}
	if _, err := TeffForType("O5V"); err == nil {
		t.Fatal("expected error for unknown spectral type")
	}
}

func TestCounts_TotalBudgetAndMagnitudeScaling(t *testing.T) {
	g := InstrumentGrid()

	ref := Counts(g, 4925, 10.0, 100)
	var total float64
	for _, c := range ref {
		if c <= 0 {
			t.Fatal("noiseless counts must be positive everywhere on the grid")
		}
		total += c
	}
	if math.Abs(total-5.0e7) > 1 {
		t.Fatalf("reference total = %v, want 5e7", total)
	}

	// One magnitude fainter scales by 10^-0.4 everywhere.
	faint := Counts(g, 4925, 11.0, 100)
	ratio := math.Pow(10, -0.4)
	for i := range ref {
		if math.Abs(faint[i]/ref[i]-ratio) > 1e-9 {
			t.Fatalf("pixel %d magnitude scaling = %v, want %v", i, faint[i]/ref[i], ratio)
		}
	}

	// Twice the exposure doubles the counts.
	long := Counts(g, 4925, 10.0, 200)
	for i := range ref {
		if math.Abs(long[i]/ref[i]-2) > 1e-9 {
			t.Fatalf("pixel %d exposure scaling = %v, want 2", i, long[i]/ref[i])
		}
	}
}

func TestCounts_HotterStarIsBluer(t *testing.T) {
	g := InstrumentGrid()
	hot := Counts(g, 5770, 10.0, 100)
	cool := Counts(g, 3150, 10.0, 100)

	// With equal total budgets, the hotter star puts a larger share of its
	// photons in the bluest pixels.
	if hot[0] <= cool[0] {
		t.Fatalf("blue-end counts: hot %v <= cool %v", hot[0], cool[0])
	}
	n := len(g.Wavelengths)
	if hot[n-1] >= cool[n-1] {
		t.Fatalf("red-end counts: hot %v >= cool %v", hot[n-1], cool[n-1])
	}
}

func TestThroughput_BoundedAndPeaked(t *testing.T) {
	g := InstrumentGrid()
	thr := Throughput(g)
	if len(thr) != len(g.Wavelengths) {
		t.Fatalf("throughput length %d, want %d", len(thr), len(g.Wavelengths))
	}
	for i, v := range thr {
		if v <= 0 || v > 1 {
			t.Fatalf("throughput[%d] = %v, want in (0, 1]", i, v)
		}
	}
	mid := thr[len(thr)/2]
	if mid <= thr[0] || mid <= thr[len(thr)-1] {
		t.Fatalf("throughput should peak mid-band: edges %v/%v, mid %v", thr[0], thr[len(thr)-1], mid)
	}
}

func TestBackground_ThermalRise(t *testing.T) {
	g := InstrumentGrid()
	bg := Background(g, 100)
	for i, v := range bg {
		if v < 100 {
			t.Fatalf("background[%d] = %v, below the 1 cps floor for 100 s", i, v)
		}
	}
	if bg[len(bg)-1] <= bg[0] {
		t.Fatalf("background should rise toward the red end: %v vs %v", bg[0], bg[len(bg)-1])
	}
}
