// Package session owns one external decoder handle for the span of one
// file: open, decode, drain images, close exactly once.
package session

import (
	"errors"
	"fmt"
	"iter"

	"github.com/user/vpxconform/pkg/ports"
)

var (
	// ErrDecoderInit is returned when the external decoder cannot be initialized.
	ErrDecoderInit = errors.New("session: decoder init failed")

	// ErrDecode is returned when the decoder rejects one frame. The session
	// remains usable.
	ErrDecode = errors.New("session: decode failed")

	// ErrClosed is returned when a closed session is used.
	ErrClosed = errors.New("session: closed")
)

// Session wraps one decoder handle bound to a single codec.
type Session struct {
	handle ports.DecoderHandle
	codec  ports.Codec
	cfg    ports.DecoderConfig
}

// Open initializes a decoder for codec. cfg.Threads must be positive.
func Open(lib ports.DecoderLibrary, codec ports.Codec, cfg ports.DecoderConfig) (*Session, error) {
	if cfg.Threads < 1 {
		return nil, fmt.Errorf("%w: threads must be at least 1, got %d", ErrDecoderInit, cfg.Threads)
	}

	h, err := lib.Open(codec, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecoderInit, codec, err)
	}
	if h == nil {
		return nil, fmt.Errorf("%w: %s: library returned no handle", ErrDecoderInit, codec)
	}

	return &Session{handle: h, codec: codec, cfg: cfg}, nil
}

// Codec returns the codec the session is bound to.
func (s *Session) Codec() ports.Codec {
	return s.codec
}

// Threads returns the configured decoder thread count.
func (s *Session) Threads() int {
	return s.cfg.Threads
}

// Decode feeds one compressed frame. The payload is not retained.
func (s *Session) Decode(payload []byte) error {
	if s.handle == nil {
		return ErrClosed
	}
	if err := s.handle.Decode(payload); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// Images returns the images produced by the most recent Decode call. The
// sequence is lazy, finite and single use; a decode may yield none, one or
// several images.
func (s *Session) Images() iter.Seq[ports.Image] {
	return func(yield func(ports.Image) bool) {
		if s.handle == nil {
			return
		}
		cur := s.handle.Images()
		for {
			img, ok := cur.Next()
			if !ok || !yield(img) {
				return
			}
		}
	}
}

// Drain consumes every pending image and returns how many there were.
func (s *Session) Drain() int {
	n := 0
	for range s.Images() {
		n++
	}
	return n
}

// Close destroys the decoder handle. Later calls do nothing.
func (s *Session) Close() {
	if s.handle == nil {
		return
	}
	s.handle.Close()
	s.handle = nil
}
