package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"transim/internal/summary"
)

func okResult() Result {
	return Result{
		System:           "Kepler-62",
		Planet:           "b",
		Status:           StatusOK,
		T0:               &summary.Param{Median: 103.918900, Upper: 0.000500, Lower: 0.000400},
		Depth:            &summary.Param{Median: 0.00035},
		Amplitude:        &summary.Param{Median: 1.2e7},
		TimingRMSSeconds: 38.88,
	}
}

func TestConsoleSink_Text(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	s := NewConsoleSink(&buf, "text")

	if err := s.Write(Event{Type: "run.started", System: "Kepler-62", Planets: 5}); err != nil {
		t.Fatalf("Write(event) returned error: %v", err)
	}
	if err := s.Write(okResult()); err != nil {
		t.Fatalf("Write(result) returned error: %v", err)
	}
	fail := Result{System: "Kepler-62", Planet: "d", Status: StatusError, Message: "sampler failed"}
	if err := s.Write(fail); err != nil {
		t.Fatalf("Write(error result) returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 (events are silent in text mode):\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "[OK] Kepler-62 b: t0 = 103.918900 +0.000500 -0.000400 d (timing rms 38.88 s)") {
		t.Fatalf("unexpected OK line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR] Kepler-62 d - sampler failed") {
		t.Fatalf("unexpected error line: %q", lines[1])
	}
}

func TestConsoleSink_JSONAggregatesOnClose(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(&buf, "json")

	if err := s.Write(okResult()); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("JSON console wrote before Close: %q", buf.String())
	}
	if err := s.Write(Event{Type: "run.finished"}); err != nil {
		t.Fatalf("Write(event) returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	var results []Result
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, buf.String())
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (events excluded)", len(results))
	}
	if results[0].Planet != "b" || results[0].Status != StatusOK {
		t.Fatalf("unexpected result: %+v", results[0])
	}
}

func TestConsoleSink_NDJSONStreamsEvents(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(&buf, "ndjson")

	if err := s.Write(Event{Type: "run.started", System: "Kepler-62", Planets: 2}); err != nil {
		t.Fatalf("Write(event) returned error: %v", err)
	}
	if err := s.Write(okResult()); err != nil {
		t.Fatalf("Write(result) returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var types []string
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("line is not valid JSON: %v: %s", err, scanner.Text())
		}
		types = append(types, e.Type)
	}
	want := []string{"run.started", "planet.result"}
	if len(types) != len(want) {
		t.Fatalf("got %d lines, want %d: %v", len(types), len(want), types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("line %d type = %q, want %q", i, types[i], want[i])
		}
	}
}

func TestFileSink_InfersFormatFromExtension(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		file string
		want string
	}{
		{file: "results.json", want: "json"},
		{file: "results.ndjson", want: "ndjson"},
		{file: "results.jsonl", want: "ndjson"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			s, err := NewFileSink(filepath.Join(dir, tt.file), "")
			if err != nil {
				t.Fatalf("NewFileSink returned error: %v", err)
			}
			if s.format != tt.want {
				t.Fatalf("inferred format = %q, want %q", s.format, tt.want)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close returned error: %v", err)
			}
		})
	}

	if _, err := NewFileSink(filepath.Join(dir, "results.csv"), ""); err == nil {
		t.Fatal("expected error for unknown extension")
	}
	if _, err := NewFileSink("", "json"); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestFileSink_JSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	s, err := NewFileSink(path, "json")
	if err != nil {
		t.Fatalf("NewFileSink returned error: %v", err)
	}
	if err := s.Write(okResult()); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var results []Result
	if err := json.Unmarshal(b, &results); err != nil {
		t.Fatalf("file is not a JSON array: %v", err)
	}
	if len(results) != 1 || results[0].T0 == nil || results[0].T0.Median != 103.9189 {
		t.Fatalf("unexpected round trip: %+v", results)
	}
}

func TestManager_FanOutAndErrorJoin(t *testing.T) {
	var a, b bytes.Buffer
	m := NewManager()
	if err := m.AddSink(NewConsoleSink(&a, "ndjson")); err != nil {
		t.Fatalf("AddSink returned error: %v", err)
	}
	if err := m.AddSink(NewConsoleSink(&b, "ndjson")); err != nil {
		t.Fatalf("AddSink returned error: %v", err)
	}
	if err := m.AddSink(nil); err == nil {
		t.Fatal("expected error adding nil sink")
	}

	if err := m.Write(okResult()); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Fatal("fan-out skipped a sink")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	failing := &errorSink{}
	if err := m.AddSink(failing); err != nil {
		t.Fatalf("AddSink returned error: %v", err)
	}
	if err := m.Write(okResult()); !errors.Is(err, errSinkBroken) {
		t.Fatalf("Write error = %v, want wrapped errSinkBroken", err)
	}
}

var errSinkBroken = errors.New("sink broken")

type errorSink struct{}

func (*errorSink) Write(any) error { return errSinkBroken }
func (*errorSink) Close() error    { return nil }
