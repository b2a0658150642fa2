package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/user/vpxconform/pkg/adapters/codecdetect"
	"github.com/user/vpxconform/pkg/ivf"
	"github.com/user/vpxconform/pkg/mocks"
	"github.com/user/vpxconform/pkg/ports"
	"github.com/user/vpxconform/pkg/session"
)

func container(t *testing.T, fourcc string, declared uint32, payloads ...[]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := ivf.NewWriter(&buf)
	if err := w.WriteHeader(ivf.NewHeader(fourcc, 352, 288, declared)); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}
	for i, p := range payloads {
		if err := w.WriteFrame(uint64(i), p); err != nil {
			t.Fatalf("WriteFrame failed: %v", err)
		}
	}
	return buf.Bytes()
}

func frames(n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = bytes.Repeat([]byte{byte(i + 1)}, 16*(i+1))
	}
	return out
}

type fixture struct {
	fs   *mocks.FileSystem
	lib  *mocks.DecoderLibrary
	sink *mocks.ReportSink
	log  *mocks.Logger
}

func newFixture() *fixture {
	return &fixture{
		fs:   mocks.NewFileSystem(),
		lib:  &mocks.DecoderLibrary{HandleTemplate: mocks.DecoderHandle{ImagesPerFrame: 1}},
		sink: mocks.NewReportSink(),
		log:  mocks.NewLogger(),
	}
}

func (f *fixture) harness(opts Options) *Harness {
	return New(f.fs, f.lib, f.sink, f.log, opts)
}

// assertReleased checks that every stream and decoder handle was closed.
func (f *fixture) assertReleased(t *testing.T) {
	t.Helper()
	if n := f.fs.OpenStreams(); n != 0 {
		t.Errorf("expected all streams closed, %d still open", n)
	}
	for i, h := range f.lib.Handles {
		if h.CloseCalls != 1 {
			t.Errorf("handle %d closed %d times, want 1", i, h.CloseCalls)
		}
	}
}

func TestRun_AllFramesDecode(t *testing.T) {
	f := newFixture()
	f.fs.AddFile("a.ivf", container(t, "VP90", 3, frames(3)...))

	v := f.harness(DefaultOptions()).Run("a.ivf")

	if !v.Passed() {
		t.Fatalf("expected PASS, got %+v", v)
	}
	if v.DecodedFrames != 3 || v.FailedFrames != 0 || v.DeclaredFrames != 3 {
		t.Errorf("decoded/failed/declared = %d/%d/%d, want 3/0/3", v.DecodedFrames, v.FailedFrames, v.DeclaredFrames)
	}
	if v.Images != 3 {
		t.Errorf("Images = %d, want 3", v.Images)
	}
	if v.Codec != ports.CodecVP9 {
		t.Errorf("Codec = %q, want vp9", v.Codec)
	}
	if v.Width != 352 || v.Height != 288 {
		t.Errorf("size = %dx%d, want 352x288", v.Width, v.Height)
	}
	if v.State != StateFinalized || v.Reached != StateDecoding {
		t.Errorf("State/Reached = %v/%v, want finalized/decoding", v.State, v.Reached)
	}
	if len(f.lib.OpenCalls) != 1 || f.lib.OpenCalls[0].Config.Threads != 4 {
		t.Errorf("unexpected Open calls: %+v", f.lib.OpenCalls)
	}
	if debug := f.log.Entries(ports.LevelDebug); len(debug) == 0 || debug[0].Message != "  Decoder: vp9, 4 threads" {
		t.Errorf("expected decoder debug line first, got %+v", debug)
	}
	if got := f.lib.Handles[0].DecodeCalls; len(got) != 3 || got[0] != 16 || got[2] != 48 {
		t.Errorf("DecodeCalls = %v, want [16 32 48]", got)
	}
	f.assertReleased(t)

	if len(f.sink.Files) != 1 {
		t.Fatalf("expected 1 file report, got %d", len(f.sink.Files))
	}
	r := f.sink.Files[0]
	if !r.Passed || r.FourCC != "VP90" || r.Codec != "vp9" || r.DecodedFrames != 3 || r.Mode != "decode" {
		t.Errorf("unexpected report: %+v", r)
	}
}

func TestRun_DecodeFailureContinues(t *testing.T) {
	f := newFixture()
	f.lib.HandleTemplate.DecodeFunc = func(index int, data []byte) error {
		if index == 1 {
			return errors.New("Corrupt frame detected")
		}
		return nil
	}
	f.fs.AddFile("b.ivf", container(t, "VP80", 3, frames(3)...))

	v := f.harness(DefaultOptions()).Run("b.ivf")

	if v.Passed() {
		t.Fatal("expected FAIL")
	}
	if v.DecodedFrames != 2 || v.FailedFrames != 1 {
		t.Errorf("decoded/failed = %d/%d, want 2/1", v.DecodedFrames, v.FailedFrames)
	}
	if n := len(f.lib.Handles[0].DecodeCalls); n != 3 {
		t.Errorf("expected frame after the failure to be attempted, got %d decode calls", n)
	}
	if v.Err != nil {
		t.Errorf("frame failure must not be a file-level error, got %v", v.Err)
	}
	if v.Failure != FailureDecode {
		t.Errorf("Failure = %q, want decode", v.Failure)
	}
	if v.Images != 2 {
		t.Errorf("Images = %d, want 2", v.Images)
	}

	warns := f.log.Entries(ports.LevelWarn)
	if len(warns) != 1 || !strings.Contains(warns[0].Message, "frame 1") {
		t.Errorf("unexpected warnings: %+v", warns)
	}
	f.assertReleased(t)
}

func TestRun_TruncatedPayload(t *testing.T) {
	f := newFixture()
	data := container(t, "VP90", 3, frames(2)...)

	partial, _ := ivf.FrameHeader{Size: 100, Timestamp: 2}.MarshalBinary()
	data = append(data, partial...)
	data = append(data, make([]byte, 10)...)
	f.fs.AddFile("t.ivf", data)

	v := f.harness(DefaultOptions()).Run("t.ivf")

	if v.Passed() {
		t.Fatal("expected FAIL")
	}
	if v.DecodedFrames != 2 || v.FailedFrames != 1 {
		t.Errorf("decoded/failed = %d/%d, want 2/1", v.DecodedFrames, v.FailedFrames)
	}
	if v.Failure != FailureFormat {
		t.Errorf("Failure = %q, want format", v.Failure)
	}
	if n := len(f.lib.Handles[0].DecodeCalls); n != 2 {
		t.Errorf("truncated frame must not reach the decoder, got %d calls", n)
	}
	f.assertReleased(t)
}

func TestRun_FewerFramesThanDeclared(t *testing.T) {
	f := newFixture()
	f.fs.AddFile("short.ivf", container(t, "VP90", 5, frames(2)...))

	v := f.harness(DefaultOptions()).Run("short.ivf")

	if v.Passed() {
		t.Fatal("expected FAIL")
	}
	if v.DecodedFrames != 2 || v.FailedFrames != 1 {
		t.Errorf("decoded/failed = %d/%d, want 2/1", v.DecodedFrames, v.FailedFrames)
	}
	if len(v.Diagnostics) != 1 || !strings.Contains(v.Diagnostics[0], "2 of 5") {
		t.Errorf("unexpected diagnostics: %v", v.Diagnostics)
	}
	f.assertReleased(t)
}

func TestRun_BadSignature(t *testing.T) {
	f := newFixture()
	data := container(t, "VP90", 1, frames(1)...)
	data[0] = 'X'
	f.fs.AddFile("bad.ivf", data)

	v := f.harness(DefaultOptions()).Run("bad.ivf")

	if v.Passed() {
		t.Fatal("expected FAIL")
	}
	if !errors.Is(v.Err, ivf.ErrBadSignature) {
		t.Errorf("expected ErrBadSignature, got %v", v.Err)
	}
	if v.Failure != FailureFormat {
		t.Errorf("Failure = %q, want format", v.Failure)
	}
	if len(f.lib.OpenCalls) != 0 {
		t.Error("decoder must not be opened for an invalid header")
	}
	if v.State != StateFinalized || v.Reached != StateInit {
		t.Errorf("State/Reached = %v/%v, want finalized/init", v.State, v.Reached)
	}
	if f.sink.Files[0].FourCC != "" {
		t.Errorf("expected empty fourcc in report, got %q", f.sink.Files[0].FourCC)
	}
	f.assertReleased(t)
}

func TestRun_UnsupportedCodec(t *testing.T) {
	f := newFixture()
	f.fs.AddFile("av1.ivf", container(t, "AV01", 2, frames(2)...))

	v := f.harness(DefaultOptions()).Run("av1.ivf")

	if v.Passed() {
		t.Fatal("expected FAIL")
	}
	if !errors.Is(v.Err, codecdetect.ErrUnsupportedCodec) {
		t.Errorf("expected ErrUnsupportedCodec, got %v", v.Err)
	}
	if v.Failure != FailureUnsupportedCodec {
		t.Errorf("Failure = %q, want unsupported_codec", v.Failure)
	}
	if len(f.lib.OpenCalls) != 0 {
		t.Error("decoder must not be opened for an unknown codec")
	}
	if v.DecodedFrames != 0 {
		t.Errorf("DecodedFrames = %d, want 0", v.DecodedFrames)
	}
	if r := f.sink.Files[0]; r.FourCC != "AV01" || r.Codec != "" {
		t.Errorf("expected fourcc without codec in report, got %q/%q", r.FourCC, r.Codec)
	}
	f.assertReleased(t)
}

func TestRun_DecoderInitFailure(t *testing.T) {
	f := newFixture()
	f.lib.OpenFunc = func(codec ports.Codec, cfg ports.DecoderConfig) (ports.DecoderHandle, error) {
		return nil, errors.New("Codec does not implement requested capability")
	}
	f.fs.AddFile("a.ivf", container(t, "VP90", 1, frames(1)...))

	v := f.harness(DefaultOptions()).Run("a.ivf")

	if v.Passed() {
		t.Fatal("expected FAIL")
	}
	if !errors.Is(v.Err, session.ErrDecoderInit) {
		t.Errorf("expected ErrDecoderInit, got %v", v.Err)
	}
	if v.Failure != FailureDecoderInit {
		t.Errorf("Failure = %q, want decoder_init", v.Failure)
	}
	if v.State != StateFinalized || v.Reached != StateHeaderRead {
		t.Errorf("State/Reached = %v/%v, want finalized/header-read", v.State, v.Reached)
	}
	f.assertReleased(t)
}

func TestRun_InvalidThreads(t *testing.T) {
	f := newFixture()
	f.fs.AddFile("a.ivf", container(t, "VP90", 1, frames(1)...))

	opts := DefaultOptions()
	opts.Threads = 0
	v := f.harness(opts).Run("a.ivf")

	if v.Failure != FailureDecoderInit {
		t.Errorf("Failure = %q, want decoder_init", v.Failure)
	}
	if len(f.lib.OpenCalls) != 0 {
		t.Error("library must not be called with invalid threads")
	}
}

func TestRun_MissingFile(t *testing.T) {
	f := newFixture()

	v := f.harness(DefaultOptions()).Run("nope.ivf")

	if v.Passed() {
		t.Fatal("expected FAIL")
	}
	if !errors.Is(v.Err, ivf.ErrIO) {
		t.Errorf("expected ErrIO, got %v", v.Err)
	}
	if v.Failure != FailureIO {
		t.Errorf("Failure = %q, want io", v.Failure)
	}
	if len(f.log.Entries(ports.LevelError)) != 1 {
		t.Error("expected one error log entry")
	}
}

func TestRun_ZeroDeclaredFrames(t *testing.T) {
	f := newFixture()
	f.fs.AddFile("empty.ivf", container(t, "VP90", 0))

	v := f.harness(DefaultOptions()).Run("empty.ivf")

	if !v.Passed() {
		t.Fatalf("expected PASS, got %+v", v)
	}
	if n := len(f.lib.Handles[0].DecodeCalls); n != 0 {
		t.Errorf("expected no decode calls, got %d", n)
	}
	f.assertReleased(t)
}

func TestRun_EmptyPayloadIsDecoded(t *testing.T) {
	f := newFixture()
	f.fs.AddFile("z.ivf", container(t, "VP90", 2, []byte{}, []byte{1, 2, 3}))

	v := f.harness(DefaultOptions()).Run("z.ivf")

	if !v.Passed() {
		t.Fatalf("expected PASS, got %+v", v)
	}
	if got := f.lib.Handles[0].DecodeCalls; len(got) != 2 || got[0] != 0 {
		t.Errorf("DecodeCalls = %v, want [0 3]", got)
	}
}

func TestRun_TrailingData(t *testing.T) {
	tests := []struct {
		policy       TrailingPolicy
		wantPass     bool
		wantTrailing int64
		wantWarnings int
	}{
		{TrailingIgnore, true, 0, 0},
		{TrailingWarn, true, 5, 1},
		{TrailingFail, false, 5, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			f := newFixture()
			data := container(t, "VP90", 2, frames(3)...)
			// Keep only the first 5 bytes of the undeclared third record.
			data = data[:len(data)-55]
			f.fs.AddFile("a.ivf", data)

			opts := DefaultOptions()
			opts.Trailing = tt.policy
			v := f.harness(opts).Run("a.ivf")

			if v.Passed() != tt.wantPass {
				t.Errorf("Passed() = %v, want %v", v.Passed(), tt.wantPass)
			}
			if v.TrailingBytes != tt.wantTrailing {
				t.Errorf("TrailingBytes = %d, want %d", v.TrailingBytes, tt.wantTrailing)
			}
			if n := len(f.log.Entries(ports.LevelWarn)); n != tt.wantWarnings {
				t.Errorf("got %d warnings, want %d", n, tt.wantWarnings)
			}
			if tt.policy == TrailingFail && !errors.Is(v.Err, ivf.ErrTrailingData) {
				t.Errorf("expected ErrTrailingData, got %v", v.Err)
			}
			if v.DecodedFrames != 2 {
				t.Errorf("DecodedFrames = %d, want 2", v.DecodedFrames)
			}
			f.assertReleased(t)
		})
	}
}

func TestRun_TrailingReadError(t *testing.T) {
	tests := []struct {
		policy   TrailingPolicy
		wantPass bool
	}{
		{TrailingIgnore, true},
		{TrailingWarn, false},
		{TrailingFail, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			f := newFixture()
			data := container(t, "VP90", 2, frames(2)...)
			f.fs.OpenFunc = func(path string) (io.ReadCloser, error) {
				r := io.MultiReader(bytes.NewReader(data), iotest.ErrReader(errors.New("device error")))
				return io.NopCloser(r), nil
			}

			opts := DefaultOptions()
			opts.Trailing = tt.policy
			v := f.harness(opts).Run("a.ivf")

			if v.Passed() != tt.wantPass {
				t.Errorf("Passed() = %v, want %v", v.Passed(), tt.wantPass)
			}
			if v.DecodedFrames != 2 {
				t.Errorf("DecodedFrames = %d, want 2", v.DecodedFrames)
			}
			if tt.wantPass {
				return
			}
			if !errors.Is(v.Err, ivf.ErrIO) || v.Failure != FailureIO {
				t.Errorf("expected i/o failure, got %v (%q)", v.Err, v.Failure)
			}
			errs := f.log.Entries(ports.LevelError)
			if len(errs) != 1 || !strings.Contains(errs[0].Message, "Failed to read trailing data") ||
				!strings.Contains(errs[0].Message, "device error") {
				t.Errorf("unexpected error log: %+v", errs)
			}
			if len(v.Diagnostics) != 1 || !strings.Contains(v.Diagnostics[0], "device error") {
				t.Errorf("unexpected diagnostics: %v", v.Diagnostics)
			}
		})
	}
}

func TestRun_FormatMode(t *testing.T) {
	f := newFixture()
	f.fs.AddFile("av1.ivf", container(t, "AV01", 3, frames(3)...))

	opts := DefaultOptions()
	opts.Mode = ModeFormat
	v := f.harness(opts).Run("av1.ivf")

	if !v.Passed() {
		t.Fatalf("expected PASS, got %+v", v)
	}
	if v.ReadFrames != 3 || v.DecodedFrames != 0 {
		t.Errorf("read/decoded = %d/%d, want 3/0", v.ReadFrames, v.DecodedFrames)
	}
	if len(f.lib.OpenCalls) != 0 {
		t.Error("format mode must not open a decoder")
	}
	if r := f.sink.Files[0]; r.Mode != "format" || r.DecodedFrames != 3 {
		t.Errorf("unexpected report: %+v", r)
	}
	f.assertReleased(t)
}

func TestRun_FormatModeTruncated(t *testing.T) {
	f := newFixture()
	data := container(t, "VP90", 2, frames(2)...)
	f.fs.AddFile("a.ivf", data[:len(data)-4])

	opts := DefaultOptions()
	opts.Mode = ModeFormat
	v := f.harness(opts).Run("a.ivf")

	if v.Passed() {
		t.Fatal("expected FAIL")
	}
	if v.ReadFrames != 1 || v.FailedFrames != 1 {
		t.Errorf("read/failed = %d/%d, want 1/1", v.ReadFrames, v.FailedFrames)
	}
	f.assertReleased(t)
}

func TestRun_ReadMode(t *testing.T) {
	tests := []struct {
		name      string
		data      func(t *testing.T) []byte
		initErr   error
		wantRead  int
		wantDiags int
	}{
		{
			name:     "first frames only",
			data:     func(t *testing.T) []byte { return container(t, "VP90", 5, frames(5)...) },
			wantRead: 3,
		},
		{
			name:     "fewer frames than cap",
			data:     func(t *testing.T) []byte { return container(t, "VP80", 2, frames(2)...) },
			wantRead: 2,
		},
		{
			name: "truncated stream",
			data: func(t *testing.T) []byte {
				d := container(t, "VP90", 4, frames(2)...)
				return d[:len(d)-4]
			},
			wantRead:  1,
			wantDiags: 1,
		},
		{
			name:      "decoder init failure tolerated",
			data:      func(t *testing.T) []byte { return container(t, "VP90", 3, frames(3)...) },
			initErr:   errors.New("no simd"),
			wantRead:  3,
			wantDiags: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.fs.AddFile("a.ivf", tt.data(t))
			if tt.initErr != nil {
				f.lib.OpenFunc = func(codec ports.Codec, cfg ports.DecoderConfig) (ports.DecoderHandle, error) {
					return nil, tt.initErr
				}
			}

			opts := DefaultOptions()
			opts.Mode = ModeRead
			v := f.harness(opts).Run("a.ivf")

			if !v.Passed() {
				t.Fatalf("expected PASS, got %+v", v)
			}
			if v.ReadFrames != tt.wantRead {
				t.Errorf("ReadFrames = %d, want %d", v.ReadFrames, tt.wantRead)
			}
			if len(v.Diagnostics) != tt.wantDiags {
				t.Errorf("Diagnostics = %v, want %d entries", v.Diagnostics, tt.wantDiags)
			}
			if len(f.lib.OpenCalls) != 1 || f.lib.OpenCalls[0].Config.Threads != 1 {
				t.Errorf("expected one single-threaded Open, got %+v", f.lib.OpenCalls)
			}
			for i, h := range f.lib.Handles {
				if len(h.DecodeCalls) != 0 {
					t.Errorf("handle %d decoded %d frames, want none", i, len(h.DecodeCalls))
				}
			}
			if len(f.log.Entries(ports.LevelError)) != 0 {
				t.Errorf("unexpected error logs: %+v", f.log.Entries(ports.LevelError))
			}
			want := fmt.Sprintf("  Result: PASS (read %d/%d frame headers)", tt.wantRead, v.DeclaredFrames)
			if info := f.log.Entries(ports.LevelInfo); info[len(info)-1].Message != want {
				t.Errorf("last info = %q, want %q", info[len(info)-1].Message, want)
			}
			if r := f.sink.Files[0]; r.Mode != "read" || r.DecodedFrames != tt.wantRead || !r.Passed {
				t.Errorf("unexpected report: %+v", r)
			}
			f.assertReleased(t)
		})
	}
}

func TestRun_ReadModeUnknownCodec(t *testing.T) {
	f := newFixture()
	f.fs.AddFile("av1.ivf", container(t, "AV01", 2, frames(2)...))

	opts := DefaultOptions()
	opts.Mode = ModeRead
	v := f.harness(opts).Run("av1.ivf")

	if v.Passed() {
		t.Fatal("expected FAIL")
	}
	if !errors.Is(v.Err, codecdetect.ErrUnsupportedCodec) {
		t.Errorf("expected ErrUnsupportedCodec, got %v", v.Err)
	}
	if len(f.lib.OpenCalls) != 0 {
		t.Error("unknown codec must not open a decoder")
	}
	f.assertReleased(t)
}

func TestRun_NilSink(t *testing.T) {
	f := newFixture()
	f.fs.AddFile("a.ivf", container(t, "VP90", 1, frames(1)...))

	v := New(f.fs, f.lib, nil, f.log, DefaultOptions()).Run("a.ivf")
	if !v.Passed() {
		t.Fatalf("expected PASS, got %+v", v)
	}
}

func TestRun_ReportCarriesRunID(t *testing.T) {
	f := newFixture()
	f.fs.AddFile("a.ivf", container(t, "VP90", 1, frames(1)...))

	opts := DefaultOptions()
	opts.RunID = "run-1"
	f.harness(opts).Run("a.ivf")

	if got := f.sink.Files[0].RunID; got != "run-1" {
		t.Errorf("RunID = %q, want run-1", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want FailureKind
	}{
		{nil, FailureNone},
		{ivf.ErrIO, FailureIO},
		{ivf.ErrTruncatedPayload, FailureFormat},
		{ivf.ErrTrailingData, FailureFormat},
		{fmt.Errorf("wrap: %w", codecdetect.ErrUnsupportedCodec), FailureUnsupportedCodec},
		{fmt.Errorf("%w: vp9", session.ErrDecoderInit), FailureDecoderInit},
		{fmt.Errorf("%w: bad", session.ErrDecode), FailureDecode},
		{errors.New("something else"), FailureIO},
	}

	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestState_String(t *testing.T) {
	if StateHeaderRead.String() != "header-read" {
		t.Errorf("unexpected name %q", StateHeaderRead.String())
	}
	if State(42).String() != "unknown" {
		t.Errorf("unexpected name %q", State(42).String())
	}
}
