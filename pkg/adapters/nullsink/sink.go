// Package nullsink provides a no-op report sink implementation.
package nullsink

import "github.com/user/vpxconform/pkg/ports"

// Sink is a no-op implementation of ports.ReportSink.
// It discards all reports.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// FileDone does nothing.
func (s *Sink) FileDone(report ports.FileReport) error {
	return nil
}

// RunDone does nothing.
func (s *Sink) RunDone(report ports.RunReport) error {
	return nil
}

// Close does nothing.
func (s *Sink) Close() error {
	return nil
}

// Ensure Sink implements ports.ReportSink
var _ ports.ReportSink = (*Sink)(nil)
