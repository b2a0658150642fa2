package ports

import "time"

// FileReport is the structured outcome of checking one container file.
type FileReport struct {
	RunID          string        `json:"run_id,omitempty"`
	Path           string        `json:"path"`
	Mode           string        `json:"mode"`
	FourCC         string        `json:"fourcc,omitempty"`
	Codec          string        `json:"codec,omitempty"`
	Width          int           `json:"width"`
	Height         int           `json:"height"`
	DeclaredFrames int           `json:"declared_frames"`
	DecodedFrames  int           `json:"decoded_frames"`
	FailedFrames   int           `json:"failed_frames"`
	Images         int           `json:"images"`
	TrailingBytes  int64         `json:"trailing_bytes,omitempty"`
	Elapsed        time.Duration `json:"elapsed_ns"`
	Passed         bool          `json:"passed"`
	Failure        string        `json:"failure,omitempty"`
	Diagnostics    []string      `json:"diagnostics,omitempty"`
}

// RunReport is the aggregate outcome of a batch run.
type RunReport struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed_ns"`
	Passed    int           `json:"passed"`
	Total     int           `json:"total"`
}

// ReportSink receives structured reports as they are produced.
type ReportSink interface {
	// FileDone is called once per processed file.
	FileDone(report FileReport) error

	// RunDone is called once after the last file of a batch.
	RunDone(report RunReport) error

	// Close flushes any buffered output.
	Close() error
}
