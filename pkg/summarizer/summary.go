// Package summarizer builds and formats run summary documents.
package summarizer

import (
	"time"

	"github.com/user/vpxconform/pkg/ports"
)

// Summary contains everything reported about one run.
type Summary struct {
	// Metadata
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Mode        string    `json:"mode,omitempty"`

	// Aggregate result
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed_ns"`
	Passed    int           `json:"passed"`
	Total     int           `json:"total"`

	// Per-file results, in processing order
	Files []ports.FileReport `json:"files"`
}

// OK reports whether every file passed.
func (s *Summary) OK() bool {
	return s.Passed == s.Total
}

// Failed returns the reports of files that did not pass.
func (s *Summary) Failed() []ports.FileReport {
	var out []ports.FileReport
	for _, f := range s.Files {
		if !f.Passed {
			out = append(out, f)
		}
	}
	return out
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithRunID sets the run identifier.
func (b *Builder) WithRunID(id string) *Builder {
	b.summary.RunID = id
	return b
}

// WithMode sets the check mode shown in the header.
func (b *Builder) WithMode(mode string) *Builder {
	b.summary.Mode = mode
	return b
}

// AddFile appends a file report and updates the counters.
func (b *Builder) AddFile(r ports.FileReport) *Builder {
	b.summary.Files = append(b.summary.Files, r)
	b.summary.Total++
	if r.Passed {
		b.summary.Passed++
	}
	if b.summary.RunID == "" {
		b.summary.RunID = r.RunID
	}
	if b.summary.Mode == "" {
		b.summary.Mode = r.Mode
	}
	return b
}

// WithRun applies the aggregate run report. Its counters take precedence
// over the ones accumulated by AddFile.
func (b *Builder) WithRun(r ports.RunReport) *Builder {
	if r.RunID != "" {
		b.summary.RunID = r.RunID
	}
	b.summary.StartedAt = r.StartedAt
	b.summary.Elapsed = r.Elapsed
	b.summary.Passed = r.Passed
	b.summary.Total = r.Total
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
