// Package output fans per-planet fit results and run lifecycle events out
// to the configured sinks (console, structured file).
package output

import "transim/internal/summary"

type Status string

const (
	StatusOK    Status = "OK"
	StatusError Status = "ERROR"
)

// Result is the outcome of one planet's fit.
type Result struct {
	System string `json:"system"`
	Planet string `json:"planet"`
	Status Status `json:"status"`

	T0        *summary.Param `json:"t0,omitempty"`
	Depth     *summary.Param `json:"depth,omitempty"`
	Amplitude *summary.Param `json:"amplitude,omitempty"`

	// TimingRMSSeconds is the photon-limited timing precision in seconds.
	TimingRMSSeconds float64 `json:"timing_rms_seconds,omitempty"`

	Message string `json:"message,omitempty"`
}
