// Package summary turns posterior samples into percentile point estimates
// and persists the per-planet and per-system result files.
package summary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Param is the median with asymmetric uncertainties from the 16/50/84
// percentile credible interval.
type Param struct {
	Median float64 `json:"median"`
	Upper  float64 `json:"upper"` // 84th percentile minus median
	Lower  float64 `json:"lower"` // median minus 16th percentile
}

// Summarize computes the credible interval for one parameter's flattened
// samples.
func Summarize(samples []float64) (Param, error) {
	if len(samples) == 0 {
		return Param{}, fmt.Errorf("summary: no samples")
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	p16 := stat.Quantile(0.16, stat.Empirical, sorted, nil)
	p50 := stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p84 := stat.Quantile(0.84, stat.Empirical, sorted, nil)
	return Param{Median: p50, Upper: p84 - p50, Lower: p50 - p16}, nil
}

// TimingRMSSeconds converts a mid-transit-time interval (days) into the
// photon-limited timing precision in seconds: half the full 16-84 width.
func TimingRMSSeconds(t0 Param) float64 {
	return (t0.Upper + t0.Lower) / 2 * 86400
}

// WriteTimeSolution writes the three-value text file for one planet:
// median, upper diff, lower diff, whitespace-separated on one line.
func WriteTimeSolution(path string, t0 Param) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	line := fmt.Sprintf("%.10f %.10f %.10f\n", t0.Median, t0.Upper, t0.Lower)
	if err := os.WriteFile(path, []byte(line), 0o644); err != nil {
		return fmt.Errorf("write time solution: %w", err)
	}
	return nil
}

// ReadTimeSolution parses a file written by WriteTimeSolution.
func ReadTimeSolution(path string) (Param, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Param{}, err
	}
	var p Param
	if _, err := fmt.Sscan(string(b), &p.Median, &p.Upper, &p.Lower); err != nil {
		return Param{}, fmt.Errorf("parse time solution %s: %w", path, err)
	}
	return p, nil
}

// WriteTimingJSON writes the aggregated planet-letter -> timing RMS [s]
// mapping as a JSON object with sorted keys and 4-space indentation.
func WriteTimingJSON(path string, rms map[string]float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	b, err := json.MarshalIndent(rms, "", "    ")
	if err != nil {
		return fmt.Errorf("encode timing summary: %w", err)
	}
	b = append(b, '\n')
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write timing summary: %w", err)
	}
	return nil
}
