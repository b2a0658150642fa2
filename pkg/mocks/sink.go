package mocks

import (
	"sync"

	"github.com/user/vpxconform/pkg/ports"
)

// ReportSink is a mock implementation of ports.ReportSink.
type ReportSink struct {
	mu sync.Mutex

	Files  []ports.FileReport
	Runs   []ports.RunReport
	Closed bool
}

// NewReportSink creates a new mock ReportSink.
func NewReportSink() *ReportSink {
	return &ReportSink{}
}

func (m *ReportSink) FileDone(report ports.FileReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files = append(m.Files, report)
	return nil
}

func (m *ReportSink) RunDone(report ports.RunReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Runs = append(m.Runs, report)
	return nil
}

func (m *ReportSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

var _ ports.ReportSink = (*ReportSink)(nil)
