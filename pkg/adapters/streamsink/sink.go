// Package streamsink provides a report sink that writes one record per
// file to a stream as results arrive.
package streamsink

import (
	"fmt"
	"io"
	"sync"

	"github.com/goccy/go-json"
	"github.com/user/vpxconform/pkg/ports"
	"github.com/user/vpxconform/pkg/summarizer"
)

// Format selects the record encoding.
type Format string

const (
	// FormatText writes one summary line per file.
	FormatText Format = "text"
	// FormatJSON writes JSON Lines: one object per file, then one for the run.
	FormatJSON Format = "json"
)

// Sink writes reports to w as they arrive.
type Sink struct {
	mu     sync.Mutex
	w      io.Writer
	format Format
	enc    *json.Encoder
}

// New creates a stream sink. An unknown format is an error.
func New(w io.Writer, format Format) (*Sink, error) {
	switch format {
	case FormatText, FormatJSON:
	case "":
		format = FormatText
	default:
		return nil, fmt.Errorf("unknown stream format: %q", format)
	}
	return &Sink{w: w, format: format, enc: json.NewEncoder(w)}, nil
}

// FileDone writes one record for report.
func (s *Sink) FileDone(report ports.FileReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == FormatJSON {
		return s.encode("file", report)
	}
	_, err := fmt.Fprintln(s.w, summarizer.FormatFileLine(report, nil))
	return err
}

// RunDone writes the aggregate record.
func (s *Sink) RunDone(report ports.RunReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == FormatJSON {
		return s.encode("run", report)
	}
	_, err := fmt.Fprintf(s.w, "Results: %d/%d passed (%dms)\n",
		report.Passed, report.Total, report.Elapsed.Milliseconds())
	return err
}

// Close does nothing; the caller owns w.
func (s *Sink) Close() error {
	return nil
}

func (s *Sink) encode(kind string, v interface{}) error {
	record := struct {
		Kind string      `json:"kind"`
		Data interface{} `json:"data"`
	}{kind, v}
	if err := s.enc.Encode(record); err != nil {
		return fmt.Errorf("encode %s record: %w", kind, err)
	}
	return nil
}

// Ensure Sink implements ports.ReportSink
var _ ports.ReportSink = (*Sink)(nil)
