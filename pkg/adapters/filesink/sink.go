// Package filesink provides a report sink that writes one summary document
// to a file when closed.
package filesink

import (
	"sync"

	"github.com/user/vpxconform/pkg/ports"
	"github.com/user/vpxconform/pkg/summarizer"
)

// Sink collects reports and writes the formatted summary on Close.
type Sink struct {
	mu      sync.Mutex
	path    string
	writer  *summarizer.Writer
	builder *summarizer.Builder
	closed  bool
}

// New creates a new FileSink writing to path through fs.
func New(path string, fs ports.FileSystem, formatter summarizer.Formatter) *Sink {
	return &Sink{
		path:    path,
		writer:  summarizer.NewWriter(fs, formatter),
		builder: summarizer.NewBuilder(),
	}
}

// Path returns the destination file.
func (s *Sink) Path() string {
	return s.path
}

// FileDone records one file report.
func (s *Sink) FileDone(report ports.FileReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builder.AddFile(report)
	return nil
}

// RunDone records the aggregate run report.
func (s *Sink) RunDone(report ports.RunReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builder.WithRun(report)
	return nil
}

// Close writes the summary document. Later calls do nothing.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.writer.Write(s.path, s.builder.Build())
}

// Ensure Sink implements ports.ReportSink
var _ ports.ReportSink = (*Sink)(nil)
