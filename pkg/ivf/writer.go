package ivf

import (
	"fmt"
	"io"
)

// Writer produces IVF streams. It is used to build fixtures.
type Writer struct {
	w      io.Writer
	frames uint32
}

// NewWriter creates a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteHeader writes the file header. When h.HeaderSize exceeds HeaderSize
// the extension is zero filled so that frames start at h.FrameOffset().
func (w *Writer) WriteHeader(h Header) error {
	b, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	if extra := h.FrameOffset() - HeaderSize; extra > 0 {
		b = append(b, make([]byte, extra)...)
	}
	if _, err := w.w.Write(b); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// WriteFrame writes one frame record.
func (w *Writer) WriteFrame(timestamp uint64, payload []byte) error {
	if uint64(len(payload)) > uint64(^uint32(0)) {
		return fmt.Errorf("frame %d: payload of %d bytes exceeds 32-bit size field", w.frames, len(payload))
	}
	fh := FrameHeader{Size: uint32(len(payload)), Timestamp: timestamp}
	b, err := fh.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.w.Write(append(b, payload...)); err != nil {
		return fmt.Errorf("write frame %d: %w", w.frames, err)
	}
	w.frames++
	return nil
}

// Frames returns the number of frame records written.
func (w *Writer) Frames() uint32 {
	return w.frames
}
