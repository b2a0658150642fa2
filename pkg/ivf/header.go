// Package ivf reads and writes the IVF container used for VP8/VP9 test
// vectors: a fixed 32-byte little-endian file header followed by frame
// records, each a 12-byte header and an opaque payload.
package ivf

import (
	"encoding/binary"
	"fmt"
)

const (
	// Signature is the literal that opens every IVF file.
	Signature = "DKIF"

	// HeaderSize is the size of the fixed file header in bytes.
	HeaderSize = 32

	// FrameHeaderSize is the size of a frame record header in bytes.
	FrameHeaderSize = 12
)

// FourCC is a four-byte codec tag such as "VP90".
type FourCC [4]byte

// NewFourCC builds a FourCC from the first four bytes of s, zero padded.
func NewFourCC(s string) FourCC {
	var f FourCC
	copy(f[:], s)
	return f
}

// String renders the tag, replacing non-printable bytes with '.'.
func (f FourCC) String() string {
	b := make([]byte, len(f))
	for i, c := range f {
		if c < 0x20 || c > 0x7e {
			c = '.'
		}
		b[i] = c
	}
	return string(b)
}

// Header is the fixed IVF file header.
//
//	offset size field
//	0      4    signature "DKIF"
//	4      2    version
//	6      2    header size
//	8      4    fourcc
//	12     2    width
//	14     2    height
//	16     4    frame rate denominator
//	20     4    frame rate numerator
//	24     4    frame count
//	28     4    reserved
type Header struct {
	Signature            [4]byte
	Version              uint16
	HeaderSize           uint16
	FourCC               FourCC
	Width                uint16
	Height               uint16
	FrameRateDenominator uint32
	FrameRateNumerator   uint32
	FrameCount           uint32
	Reserved             uint32
}

// NewHeader returns a header with the signature and size fields filled in.
func NewHeader(fourcc string, width, height uint16, frameCount uint32) Header {
	h := Header{
		HeaderSize:           HeaderSize,
		FourCC:               NewFourCC(fourcc),
		Width:                width,
		Height:               height,
		FrameRateDenominator: 30,
		FrameRateNumerator:   1,
		FrameCount:           frameCount,
	}
	copy(h.Signature[:], Signature)
	return h
}

// ParseHeader decodes a file header from the first HeaderSize bytes of b.
// Only the signature is validated.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, got %d", ErrIO, HeaderSize, len(b))
	}

	var h Header
	copy(h.Signature[:], b[0:4])
	if string(h.Signature[:]) != Signature {
		return Header{}, fmt.Errorf("%w: got %q", ErrBadSignature, h.Signature[:])
	}
	h.Version = binary.LittleEndian.Uint16(b[4:6])
	h.HeaderSize = binary.LittleEndian.Uint16(b[6:8])
	copy(h.FourCC[:], b[8:12])
	h.Width = binary.LittleEndian.Uint16(b[12:14])
	h.Height = binary.LittleEndian.Uint16(b[14:16])
	h.FrameRateDenominator = binary.LittleEndian.Uint32(b[16:20])
	h.FrameRateNumerator = binary.LittleEndian.Uint32(b[20:24])
	h.FrameCount = binary.LittleEndian.Uint32(b[24:28])
	h.Reserved = binary.LittleEndian.Uint32(b[28:32])
	return h, nil
}

// MarshalBinary encodes the header into its 32-byte wire form.
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)
	copy(b[0:4], h.Signature[:])
	binary.LittleEndian.PutUint16(b[4:6], h.Version)
	binary.LittleEndian.PutUint16(b[6:8], h.HeaderSize)
	copy(b[8:12], h.FourCC[:])
	binary.LittleEndian.PutUint16(b[12:14], h.Width)
	binary.LittleEndian.PutUint16(b[14:16], h.Height)
	binary.LittleEndian.PutUint32(b[16:20], h.FrameRateDenominator)
	binary.LittleEndian.PutUint32(b[20:24], h.FrameRateNumerator)
	binary.LittleEndian.PutUint32(b[24:28], h.FrameCount)
	binary.LittleEndian.PutUint32(b[28:32], h.Reserved)
	return b, nil
}

// FrameOffset returns the byte offset of the first frame record.
// A declared header size below HeaderSize is treated as HeaderSize.
func (h Header) FrameOffset() int64 {
	if h.HeaderSize < HeaderSize {
		return HeaderSize
	}
	return int64(h.HeaderSize)
}

// FrameHeader is the 12-byte header preceding each frame payload.
type FrameHeader struct {
	Size      uint32
	Timestamp uint64
}

// ParseFrameHeader decodes a frame header from the first FrameHeaderSize bytes of b.
func ParseFrameHeader(b []byte) (FrameHeader, error) {
	if len(b) < FrameHeaderSize {
		return FrameHeader{}, fmt.Errorf("%w: got %d of %d bytes", ErrTruncatedFrameHeader, len(b), FrameHeaderSize)
	}
	return FrameHeader{
		Size:      binary.LittleEndian.Uint32(b[0:4]),
		Timestamp: binary.LittleEndian.Uint64(b[4:12]),
	}, nil
}

// MarshalBinary encodes the frame header into its 12-byte wire form.
func (fh FrameHeader) MarshalBinary() ([]byte, error) {
	b := make([]byte, FrameHeaderSize)
	binary.LittleEndian.PutUint32(b[0:4], fh.Size)
	binary.LittleEndian.PutUint64(b[4:12], fh.Timestamp)
	return b, nil
}

// Frame is one frame record read from a container.
type Frame struct {
	FrameHeader
	Payload []byte
}
