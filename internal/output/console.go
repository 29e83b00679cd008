package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

type ConsoleSink struct {
	writer  io.Writer
	format  string // "text", "json", "ndjson"
	mu      sync.Mutex
	results []Result // for JSON array output
}

func NewConsoleSink(w io.Writer, format string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}
	return &ConsoleSink{writer: w, format: format}
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) writeLocked(v any) error {
	switch s.format {
	case "json":
		r, ok := v.(Result)
		if !ok {
			// Ignore lifecycle events in JSON console mode.
			return nil
		}
		s.results = append(s.results, r)
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.writer)
		switch t := v.(type) {
		case Event:
			if err := encoder.Encode(t); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case Result:
			if err := encoder.Encode(eventFromResult(t)); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		default:
			return nil
		}
	case "text":
		r, ok := v.(Result)
		if !ok {
			// Ignore events in text mode.
			return nil
		}
		if err := s.printResult(r); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) printResult(r Result) error {
	tag := color.New(color.FgGreen).Sprintf("[%s]", r.Status)
	if r.Status != StatusOK {
		tag = color.New(color.FgRed).Sprintf("[%s]", r.Status)
	}
	if r.Status != StatusOK || r.T0 == nil {
		_, err := fmt.Fprintf(s.writer, "%s %s %s - %s\n", tag, r.System, r.Planet, r.Message)
		return err
	}
	_, err := fmt.Fprintf(s.writer, "%s %s %s: t0 = %.6f +%.6f -%.6f d (timing rms %.2f s)\n",
		tag, r.System, r.Planet, r.T0.Median, r.T0.Upper, r.T0.Lower, r.TimingRMSSeconds)
	return err
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(s.results); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}
