package output

// Event is a lifecycle record for NDJSON streaming output.
//
// In NDJSON mode, sinks emit Events (one JSON object per line), including:
// - run.started
// - planet.started
// - planet.result
// - planet.finished
// - run.finished
//
// JSON mode remains an aggregate of Result values.
type Event struct {
	Type   string `json:"type"`
	System string `json:"system,omitempty"`
	Planet string `json:"planet,omitempty"`
	*Result
	Planets  int `json:"planets,omitempty"`
	ExitCode int `json:"exit_code,omitempty"`
}

func eventFromResult(r Result) Event {
	return Event{Type: "planet.result", System: r.System, Planet: r.Planet, Result: &r}
}
