// Package batch runs the harness over a fixed list of container files and
// aggregates the results.
package batch

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/user/vpxconform/pkg/harness"
	"github.com/user/vpxconform/pkg/ports"
)

// FileRunner checks a single file.
type FileRunner interface {
	Run(path string) harness.Verdict
}

// Summary is the aggregate result of a batch run.
type Summary struct {
	RunID     string
	StartedAt time.Time
	Elapsed   time.Duration
	Passed    int
	Total     int
	Verdicts  []harness.Verdict
}

// OK reports whether every file passed.
func (s Summary) OK() bool {
	return s.Passed == s.Total
}

// Options configures a Runner.
type Options struct {
	// RunID identifies the run in reports. A random UUID is used when empty.
	RunID string
	// Title is logged before the first file.
	Title string
}

// Runner processes assets strictly in order, one at a time.
type Runner struct {
	files  FileRunner
	assets []string
	sink   ports.ReportSink
	log    ports.Logger
	opts   Options
}

// New creates a Runner. sink may be nil.
func New(files FileRunner, assets []string, sink ports.ReportSink, log ports.Logger, opts Options) *Runner {
	if opts.RunID == "" {
		opts.RunID = NewRunID()
	}
	return &Runner{
		files:  files,
		assets: assets,
		sink:   sink,
		log:    log,
		opts:   opts,
	}
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// RunID returns the identifier stamped into this run's reports.
func (r *Runner) RunID() string {
	return r.opts.RunID
}

// Run checks every asset and returns the aggregate.
func (r *Runner) Run() Summary {
	s := Summary{
		RunID:     r.opts.RunID,
		StartedAt: time.Now(),
		Verdicts:  make([]harness.Verdict, 0, len(r.assets)),
	}

	if r.opts.Title != "" {
		r.log.Info(r.opts.Title)
	}
	r.log.Debug("Run %s: %d files", s.RunID, len(r.assets))

	for _, path := range r.assets {
		v := r.files.Run(path)
		s.Verdicts = append(s.Verdicts, v)
		s.Total++

		if v.Passed() {
			s.Passed++
			r.log.Info("[PASS] %s", filepath.Base(path))
		} else {
			r.log.Info("[FAIL] %s", filepath.Base(path))
		}
	}

	s.Elapsed = time.Since(s.StartedAt)
	r.log.Info("=== Results: %d/%d passed ===", s.Passed, s.Total)

	if r.sink != nil {
		err := r.sink.RunDone(ports.RunReport{
			RunID:     s.RunID,
			StartedAt: s.StartedAt,
			Elapsed:   s.Elapsed,
			Passed:    s.Passed,
			Total:     s.Total,
		})
		if err != nil {
			r.log.Warn("Failed to write report: %s", err)
		}
	}

	return s
}
