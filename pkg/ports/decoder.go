// Package ports defines interfaces for external dependencies.
package ports

// Codec identifies one external decoder implementation.
type Codec string

const (
	// CodecVP9 selects the VP9 decoder interface.
	CodecVP9 Codec = "vp9"
	// CodecVP8 selects the VP8 decoder interface.
	CodecVP8 Codec = "vp8"
)

// DecoderConfig is forwarded opaquely to the external decoder on init.
type DecoderConfig struct {
	Threads int // Worker threads the decoder may use internally (>= 1)
}

// Image describes one picture retrieved from a decoder.
// Pixel data is never copied out of the external library.
type Image struct {
	Width    int
	Height   int
	BitDepth int
	Format   string
}

// DecoderLibrary abstracts the external codec library.
type DecoderLibrary interface {
	// Open initializes a decoder handle bound to codec.
	// A failure carries the library's diagnostic text.
	Open(codec Codec, cfg DecoderConfig) (DecoderHandle, error)
}

// DecoderHandle is one initialized decoder context.
// Calls are synchronous; the handle is not safe for concurrent use.
type DecoderHandle interface {
	// Decode feeds one compressed frame. A failed call does not
	// invalidate the handle.
	Decode(data []byte) error

	// Images starts a new pass over the images made available by the
	// most recent Decode call. Only one cursor may be in use at a time.
	Images() ImageCursor

	// Close destroys the decoder context.
	Close()
}

// ImageCursor is a forward-only cursor over decoded images.
type ImageCursor interface {
	// Next returns the next image, or false once the decoder has none left.
	Next() (Image, bool)
}
