package harness

import (
	"errors"
	"time"

	"github.com/user/vpxconform/pkg/adapters/codecdetect"
	"github.com/user/vpxconform/pkg/ivf"
	"github.com/user/vpxconform/pkg/ports"
	"github.com/user/vpxconform/pkg/session"
)

// State is a step of the per-file state machine.
type State int

const (
	StateInit State = iota
	StateHeaderRead
	StateDecoding
	StateFinalized
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateHeaderRead:
		return "header-read"
	case StateDecoding:
		return "decoding"
	case StateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// FailureKind classifies the first failure recorded for a file.
type FailureKind string

const (
	FailureNone             FailureKind = ""
	FailureIO               FailureKind = "io"
	FailureFormat           FailureKind = "format"
	FailureUnsupportedCodec FailureKind = "unsupported_codec"
	FailureDecoderInit      FailureKind = "decoder_init"
	FailureDecode           FailureKind = "decode"
)

// Classify maps an error from the parser, codec adapter or session to a
// FailureKind.
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, codecdetect.ErrUnsupportedCodec):
		return FailureUnsupportedCodec
	case errors.Is(err, session.ErrDecoderInit):
		return FailureDecoderInit
	case errors.Is(err, session.ErrDecode):
		return FailureDecode
	case errors.Is(err, ivf.ErrFormat):
		return FailureFormat
	default:
		return FailureIO
	}
}

// Verdict is the outcome of processing one file.
type Verdict struct {
	Path  string
	Mode  Mode
	State State

	// Reached is the last state entered before finalization.
	Reached State

	FourCC ivf.FourCC
	Codec  ports.Codec
	Width  int
	Height int

	DeclaredFrames int
	ReadFrames     int
	DecodedFrames  int
	FailedFrames   int
	Images         int
	TrailingBytes  int64

	Elapsed time.Duration

	// Err is the file-level error that stopped processing early, if any.
	Err         error
	Failure     FailureKind
	Diagnostics []string
}

// Passed reports whether the file passed.
func (v Verdict) Passed() bool {
	if v.Mode == ModeRead {
		return v.Err == nil
	}
	if v.Err != nil || v.FailedFrames != 0 {
		return false
	}
	if v.Mode == ModeFormat {
		return v.ReadFrames == v.DeclaredFrames
	}
	return v.DecodedFrames == v.DeclaredFrames
}

// Report converts the verdict into a structured file report.
func (v Verdict) Report(runID string) ports.FileReport {
	r := ports.FileReport{
		RunID:          runID,
		Path:           v.Path,
		Mode:           string(v.Mode),
		Codec:          string(v.Codec),
		Width:          v.Width,
		Height:         v.Height,
		DeclaredFrames: v.DeclaredFrames,
		DecodedFrames:  v.DecodedFrames,
		FailedFrames:   v.FailedFrames,
		Images:         v.Images,
		TrailingBytes:  v.TrailingBytes,
		Elapsed:        v.Elapsed,
		Passed:         v.Passed(),
		Failure:        string(v.Failure),
		Diagnostics:    v.Diagnostics,
	}
	if v.FourCC != (ivf.FourCC{}) {
		r.FourCC = v.FourCC.String()
	}
	if v.Mode == ModeFormat || v.Mode == ModeRead {
		r.DecodedFrames = v.ReadFrames
	}
	return r
}

func (v *Verdict) record(err error) {
	if v.Failure == FailureNone {
		v.Failure = Classify(err)
	}
	v.Diagnostics = append(v.Diagnostics, err.Error())
}
