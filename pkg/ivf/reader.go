package ivf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/user/vpxconform/pkg/ports"
)

// maxPreallocate bounds the payload buffer allocated up front from a
// declared frame size. Larger payloads grow as bytes actually arrive so a
// corrupt size field cannot force a huge allocation.
const maxPreallocate = 16 << 20

// Reader is a forward-only cursor over an IVF stream.
// It is not restartable; reopen the file to read it again.
type Reader struct {
	r      *bufio.Reader
	closer io.Closer
	offset int64
	index  int
}

// NewReader creates a Reader over r. If r is an io.Closer, Close closes it.
func NewReader(r io.Reader) *Reader {
	rd := &Reader{r: bufio.NewReader(r)}
	if c, ok := r.(io.Closer); ok {
		rd.closer = c
	}
	return rd
}

// Open opens path through fs for sequential reading.
func Open(fs ports.FileSystem, path string) (*Reader, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}
	return NewReader(f), nil
}

// Close releases the underlying stream. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.offset
}

// ReadHeader reads the file header and positions the cursor at the first
// frame record. If the header declares a size above HeaderSize the extra
// bytes are skipped.
func (r *Reader) ReadHeader() (Header, error) {
	buf := make([]byte, HeaderSize)
	n, err := io.ReadFull(r.r, buf)
	r.offset += int64(n)
	if err != nil {
		return Header{}, fmt.Errorf("%w: read header: got %d of %d bytes: %w", ErrIO, n, HeaderSize, err)
	}

	h, err := ParseHeader(buf)
	if err != nil {
		return Header{}, err
	}

	if extra := h.FrameOffset() - HeaderSize; extra > 0 {
		skipped, err := io.CopyN(io.Discard, r.r, extra)
		r.offset += skipped
		if err != nil {
			return Header{}, fmt.Errorf("%w: skip %d header extension bytes: got %d: %w", ErrIO, extra, skipped, err)
		}
	}

	return h, nil
}

// Next reads the next frame record. It returns io.EOF when the stream ends
// exactly on a record boundary, ErrTruncatedFrameHeader when it ends inside
// a frame header and ErrTruncatedPayload when it ends inside a payload.
// Partial payload bytes are discarded.
func (r *Reader) Next() (Frame, error) {
	fh, err := r.readFrameHeader()
	if err != nil {
		return Frame{}, err
	}

	payload, err := r.readPayload(fh.Size)
	if err != nil {
		return Frame{}, err
	}

	r.index++
	return Frame{FrameHeader: fh, Payload: payload}, nil
}

// Skip reads the next frame header and discards its payload without
// buffering it. Errors match Next.
func (r *Reader) Skip() (FrameHeader, error) {
	fh, err := r.readFrameHeader()
	if err != nil {
		return FrameHeader{}, err
	}

	start := r.offset
	n, err := io.CopyN(io.Discard, r.r, int64(fh.Size))
	r.offset += n
	if err != nil {
		if errors.Is(err, io.EOF) {
			return FrameHeader{}, fmt.Errorf("%w: frame %d at offset %d: got %d of %d bytes",
				ErrTruncatedPayload, r.index, start, n, fh.Size)
		}
		return FrameHeader{}, fmt.Errorf("%w: skip frame %d: %w", ErrIO, r.index, err)
	}

	r.index++
	return fh, nil
}

// Frames returns a lazy sequence over the remaining frame records. The
// sequence ends cleanly at io.EOF; any other error is yielded once and
// ends it.
func (r *Reader) Frames() iter.Seq2[Frame, error] {
	return func(yield func(Frame, error) bool) {
		for {
			f, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(f, err) || err != nil {
				return
			}
		}
	}
}

// Drain consumes the rest of the stream and returns how many bytes were left.
func (r *Reader) Drain() (int64, error) {
	n, err := io.Copy(io.Discard, r.r)
	r.offset += n
	if err != nil {
		return n, fmt.Errorf("%w: drain: %w", ErrIO, err)
	}
	return n, nil
}

func (r *Reader) readFrameHeader() (FrameHeader, error) {
	var buf [FrameHeaderSize]byte
	start := r.offset
	n, err := io.ReadFull(r.r, buf[:])
	r.offset += int64(n)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		return FrameHeader{}, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return FrameHeader{}, fmt.Errorf("%w: frame %d at offset %d: got %d of %d bytes",
			ErrTruncatedFrameHeader, r.index, start, n, FrameHeaderSize)
	default:
		return FrameHeader{}, fmt.Errorf("%w: read frame %d header: %w", ErrIO, r.index, err)
	}
	return ParseFrameHeader(buf[:])
}

func (r *Reader) readPayload(size uint32) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	start := r.offset
	var payload []byte
	var err error
	if size <= maxPreallocate {
		payload = make([]byte, size)
		var n int
		n, err = io.ReadFull(r.r, payload)
		payload = payload[:n]
	} else {
		payload, err = io.ReadAll(io.LimitReader(r.r, int64(size)))
	}
	r.offset += int64(len(payload))

	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%w: read frame %d payload: %w", ErrIO, r.index, err)
	}
	if uint32(len(payload)) < size {
		return nil, fmt.Errorf("%w: frame %d at offset %d: got %d of %d bytes",
			ErrTruncatedPayload, r.index, start, len(payload), size)
	}
	return payload, nil
}
