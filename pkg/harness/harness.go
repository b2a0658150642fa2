// Package harness runs the per-file conformance check: parse the IVF
// header, bind a decoder, feed every declared frame and compute a verdict.
package harness

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/user/vpxconform/pkg/adapters/codecdetect"
	"github.com/user/vpxconform/pkg/ivf"
	"github.com/user/vpxconform/pkg/ports"
	"github.com/user/vpxconform/pkg/session"
)

// Mode selects what the harness checks.
type Mode string

const (
	// ModeDecode feeds every frame to the decoder.
	ModeDecode Mode = "decode"
	// ModeFormat only walks the container, skipping payloads.
	ModeFormat Mode = "format"
	// ModeRead is a smoke check: resolve the codec, try to bring up a
	// single-threaded decoder and read the first few frame headers. Only a
	// bad header or an unknown codec fails the file.
	ModeRead Mode = "read"
)

// readFrames caps the frame headers ModeRead looks at.
const readFrames = 3

// TrailingPolicy decides what happens to bytes after the last declared frame.
type TrailingPolicy string

const (
	TrailingIgnore TrailingPolicy = "ignore"
	TrailingWarn   TrailingPolicy = "warn"
	TrailingFail   TrailingPolicy = "fail"
)

// Options configures a Harness.
type Options struct {
	Mode     Mode
	Threads  int
	Trailing TrailingPolicy
	RunID    string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Mode:     ModeDecode,
		Threads:  4,
		Trailing: TrailingWarn,
	}
}

// Harness checks one file at a time. It holds no per-file state between
// runs.
type Harness struct {
	fs   ports.FileSystem
	lib  ports.DecoderLibrary
	sink ports.ReportSink
	log  ports.Logger
	opts Options
}

// New creates a Harness. sink may be nil.
func New(fs ports.FileSystem, lib ports.DecoderLibrary, sink ports.ReportSink, log ports.Logger, opts Options) *Harness {
	return &Harness{
		fs:   fs,
		lib:  lib,
		sink: sink,
		log:  log,
		opts: opts,
	}
}

// Run processes path and returns its verdict. The stream and decoder
// session are released before Run returns, whatever the outcome.
func (h *Harness) Run(path string) Verdict {
	start := time.Now()
	v := Verdict{Path: path, Mode: h.opts.Mode, State: StateInit}

	h.process(&v)

	v.Elapsed = time.Since(start)
	v.Reached = v.State
	v.State = StateFinalized
	h.logResult(v)

	if h.sink != nil {
		if err := h.sink.FileDone(v.Report(h.opts.RunID)); err != nil {
			h.log.Warn("Failed to write report: %s", err)
		}
	}
	return v
}

func (h *Harness) process(v *Verdict) {
	r, err := ivf.Open(h.fs, v.Path)
	if err != nil {
		h.fail(v, err, "Could not open file: %s")
		return
	}
	defer r.Close()

	hdr, err := r.ReadHeader()
	if err != nil {
		h.fail(v, err, "Not a valid IVF file: %s")
		return
	}

	v.State = StateHeaderRead
	v.FourCC = hdr.FourCC
	v.Width = int(hdr.Width)
	v.Height = int(hdr.Height)
	v.DeclaredFrames = int(hdr.FrameCount)

	if h.opts.Mode == ModeFormat {
		h.logHeader("Reading: %s", v)
		if h.scan(r, v) {
			h.checkTrailing(r, v)
		}
		return
	}

	codec, err := codecdetect.Resolve(hdr.FourCC)
	if err != nil {
		h.fail(v, err, "Unknown codec: %s")
		return
	}
	v.Codec = codec

	if h.opts.Mode == ModeRead {
		h.logHeader("Reading: %s", v)
		h.tryDecoder(codec, v)
		h.skim(r, v)
		return
	}

	s, err := session.Open(h.lib, codec, ports.DecoderConfig{Threads: h.opts.Threads})
	if err != nil {
		h.fail(v, err, "Decoder init failed: %s")
		return
	}
	defer s.Close()

	v.State = StateDecoding
	h.logHeader("Decoding: %s", v)
	h.log.Debug("  Decoder: %s, %d threads", s.Codec(), s.Threads())

	if h.decode(r, s, v) {
		h.checkTrailing(r, v)
	}
}

// decode feeds every declared frame to s. It returns false if the frame
// loop stopped on a read shortfall.
func (h *Harness) decode(r *ivf.Reader, s *session.Session, v *Verdict) bool {
	log := h.log.WithComponent("decode")

	for i := 0; i < v.DeclaredFrames; i++ {
		f, err := r.Next()
		if err != nil {
			h.readFailed(v, i, err)
			return false
		}
		v.ReadFrames++
		log.Debug("Frame %d: %d bytes, timestamp %d", i, f.Size, f.Timestamp)

		if err := s.Decode(f.Payload); err != nil {
			v.FailedFrames++
			v.record(err)
			h.log.Warn("Decode failed at frame %d: %s", i, err)
			continue
		}
		v.DecodedFrames++

		n := s.Drain()
		v.Images += n
		log.Debug("Frame %d: %d images", i, n)
	}
	return true
}

// scan reads every declared frame header without decoding. It returns
// false if it stopped on a read shortfall.
func (h *Harness) scan(r *ivf.Reader, v *Verdict) bool {
	log := h.log.WithComponent("format")

	for i := 0; i < v.DeclaredFrames; i++ {
		fh, err := r.Skip()
		if err != nil {
			h.readFailed(v, i, err)
			return false
		}
		v.ReadFrames++
		log.Debug("Frame %d: %d bytes, timestamp %d", i, fh.Size, fh.Timestamp)
	}
	return true
}

// tryDecoder opens and immediately closes a single-threaded decoder. A
// failure is noted but does not fail the file.
func (h *Harness) tryDecoder(codec ports.Codec, v *Verdict) {
	s, err := session.Open(h.lib, codec, ports.DecoderConfig{Threads: 1})
	if err != nil {
		v.Diagnostics = append(v.Diagnostics, err.Error())
		h.log.Info("  Decoder init failed (tolerated): %s", err)
		return
	}
	s.Close()
	h.log.Info("  Decoder initialized")
}

// skim reads up to readFrames frame headers. A short stream is noted but
// does not fail the file.
func (h *Harness) skim(r *ivf.Reader, v *Verdict) {
	log := h.log.WithComponent("read")

	n := min(v.DeclaredFrames, readFrames)
	for i := 0; i < n; i++ {
		fh, err := r.Skip()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = fmt.Errorf("%w: frame %d: stream ended after %d of %d declared frames",
					ivf.ErrTruncatedFrameHeader, i, i, v.DeclaredFrames)
			}
			v.Diagnostics = append(v.Diagnostics, err.Error())
			h.log.Warn("Stopped reading at frame %d: %s", i, err)
			return
		}
		v.ReadFrames++
		log.Debug("Frame %d: %d bytes, timestamp %d", i, fh.Size, fh.Timestamp)
	}
}

func (h *Harness) readFailed(v *Verdict, index int, err error) {
	if errors.Is(err, io.EOF) {
		err = fmt.Errorf("%w: frame %d: stream ended after %d of %d declared frames",
			ivf.ErrTruncatedFrameHeader, index, index, v.DeclaredFrames)
	}
	v.FailedFrames++
	v.record(err)
	h.log.Error("Failed to read frame %d: %s", index, err)
}

func (h *Harness) checkTrailing(r *ivf.Reader, v *Verdict) {
	if h.opts.Trailing == TrailingIgnore {
		return
	}

	n, err := r.Drain()
	v.TrailingBytes = n
	if err != nil {
		h.fail(v, err, "Failed to read trailing data: %s")
		return
	}
	if n == 0 {
		return
	}

	if h.opts.Trailing == TrailingFail {
		err := fmt.Errorf("%w: %d bytes after frame %d", ivf.ErrTrailingData, n, v.DeclaredFrames)
		h.fail(v, err, "Trailing data rejected: %s")
		return
	}
	h.log.Warn("%d trailing bytes after frame %d", n, v.DeclaredFrames)
}

func (h *Harness) fail(v *Verdict, err error, msg string) {
	v.Err = err
	v.record(err)
	h.log.Error(msg, err)
}

func (h *Harness) logHeader(title string, v *Verdict) {
	h.log.Info(title, v.Path)
	h.log.Info("  Codec: %s", v.FourCC)
	h.log.Info("  Size: %dx%d", v.Width, v.Height)
	h.log.Info("  Frames: %d", v.DeclaredFrames)
}

func (h *Harness) logResult(v Verdict) {
	ms := v.Elapsed.Milliseconds()

	if v.Mode == ModeRead {
		if v.Passed() {
			h.log.Info("  Result: PASS (read %d/%d frame headers)", v.ReadFrames, v.DeclaredFrames)
		} else {
			h.log.Info("  Result: FAIL")
		}
		return
	}

	if v.Mode == ModeFormat {
		if v.Passed() {
			h.log.Info("  Result: PASS (read %d frame headers in %dms)", v.ReadFrames, ms)
		} else {
			h.log.Info("  Result: FAIL (read %d/%d frame headers)", v.ReadFrames, v.DeclaredFrames)
		}
		return
	}

	if v.Passed() {
		h.log.Info("  Result: PASS (%d frames decoded in %dms)", v.DecodedFrames, ms)
	} else {
		h.log.Info("  Result: FAIL (%d/%d frames decoded, %d failed)", v.DecodedFrames, v.DeclaredFrames, v.FailedFrames)
	}
}
