// Package vpxdecoder provides the VP8/VP9 decoders of libvpx as a
// ports.DecoderLibrary.
//
// Builds with cgo link libvpx through pkg-config. Builds without cgo, or
// with the novpx tag, compile a stub whose Open reports ErrNotAvailable.
package vpxdecoder

import (
	"errors"
	"fmt"

	"github.com/user/vpxconform/pkg/ports"
)

var (
	// ErrNotAvailable is returned when libvpx is not linked into the binary.
	ErrNotAvailable = errors.New("vpxdecoder: libvpx not available in this build")

	// ErrUnsupportedCodec is returned for codecs libvpx does not decode.
	ErrUnsupportedCodec = errors.New("vpxdecoder: unsupported codec")

	// ErrInitFailed is returned when vpx_codec_dec_init fails.
	ErrInitFailed = errors.New("vpxdecoder: decoder init failed")

	// ErrDecodeFailed is returned when vpx_codec_decode rejects a frame.
	ErrDecodeFailed = errors.New("vpxdecoder: decode failed")

	// ErrClosed is returned when a closed decoder is used.
	ErrClosed = errors.New("vpxdecoder: decoder closed")
)

// Library opens libvpx decoder contexts.
type Library struct{}

// New creates a new Library.
func New() *Library {
	return &Library{}
}

// Open initializes a decoder context for codec with cfg.Threads threads.
func (l *Library) Open(codec ports.Codec, cfg ports.DecoderConfig) (ports.DecoderHandle, error) {
	if codec != ports.CodecVP9 && codec != ports.CodecVP8 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCodec, codec)
	}
	if cfg.Threads < 1 {
		return nil, fmt.Errorf("%w: threads must be at least 1, got %d", ErrInitFailed, cfg.Threads)
	}
	return openDecoder(codec, cfg)
}

// Available reports whether this build links libvpx.
func Available() bool {
	return available
}

var _ ports.DecoderLibrary = (*Library)(nil)
