package ivf

import (
	"errors"
	"fmt"
)

var (
	// ErrIO is returned when the stream cannot be opened or a fixed-size
	// header region is shorter than required.
	ErrIO = errors.New("ivf: i/o error")

	// ErrFormat is the parent of every structural container error.
	ErrFormat = errors.New("ivf: format error")

	// ErrBadSignature is returned when a file does not start with "DKIF".
	ErrBadSignature = fmt.Errorf("%w: missing DKIF signature", ErrFormat)

	// ErrTruncatedFrameHeader is returned when fewer than 12 bytes remain
	// for a frame header that was expected.
	ErrTruncatedFrameHeader = fmt.Errorf("%w: truncated frame header", ErrFormat)

	// ErrTruncatedPayload is returned when a frame's payload is shorter than
	// its declared size.
	ErrTruncatedPayload = fmt.Errorf("%w: truncated frame payload", ErrFormat)

	// ErrTrailingData is returned by strict callers when bytes follow the
	// last declared frame record.
	ErrTrailingData = fmt.Errorf("%w: trailing data after last frame", ErrFormat)
)
