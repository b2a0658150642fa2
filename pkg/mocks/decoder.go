package mocks

import (
	"sync"

	"github.com/user/vpxconform/pkg/ports"
)

// DecoderLibrary is a mock implementation of ports.DecoderLibrary.
// Unless OpenFunc is set, Open returns a fresh DecoderHandle configured
// from HandleTemplate.
type DecoderLibrary struct {
	mu sync.Mutex

	OpenFunc       func(codec ports.Codec, cfg ports.DecoderConfig) (ports.DecoderHandle, error)
	HandleTemplate DecoderHandle

	// Recorded calls for verification
	OpenCalls []OpenCall
	Handles   []*DecoderHandle
}

// OpenCall records a call to Open.
type OpenCall struct {
	Codec  ports.Codec
	Config ports.DecoderConfig
}

func (m *DecoderLibrary) Open(codec ports.Codec, cfg ports.DecoderConfig) (ports.DecoderHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.OpenCalls = append(m.OpenCalls, OpenCall{Codec: codec, Config: cfg})
	if m.OpenFunc != nil {
		return m.OpenFunc(codec, cfg)
	}

	h := &DecoderHandle{
		DecodeFunc:     m.HandleTemplate.DecodeFunc,
		ImagesPerFrame: m.HandleTemplate.ImagesPerFrame,
	}
	m.Handles = append(m.Handles, h)
	return h, nil
}

var _ ports.DecoderLibrary = (*DecoderLibrary)(nil)

// DecoderHandle is a mock implementation of ports.DecoderHandle.
type DecoderHandle struct {
	// DecodeFunc receives the zero-based index of the Decode call.
	DecodeFunc func(index int, data []byte) error

	// ImagesPerFrame is how many images a successful Decode makes available.
	ImagesPerFrame int

	// Recorded calls for verification
	DecodeCalls []int // payload sizes
	ImageCalls  int
	CloseCalls  int

	pending int
}

func (m *DecoderHandle) Decode(data []byte) error {
	index := len(m.DecodeCalls)
	m.DecodeCalls = append(m.DecodeCalls, len(data))

	m.pending = 0
	if m.DecodeFunc != nil {
		if err := m.DecodeFunc(index, data); err != nil {
			return err
		}
	}
	m.pending = m.ImagesPerFrame
	return nil
}

func (m *DecoderHandle) Images() ports.ImageCursor {
	m.ImageCalls++
	n := m.pending
	m.pending = 0
	return &imageCursor{remaining: n}
}

func (m *DecoderHandle) Close() {
	m.CloseCalls++
}

var _ ports.DecoderHandle = (*DecoderHandle)(nil)

type imageCursor struct {
	remaining int
}

func (c *imageCursor) Next() (ports.Image, bool) {
	if c.remaining <= 0 {
		return ports.Image{}, false
	}
	c.remaining--
	return ports.Image{Width: 64, Height: 64, BitDepth: 8, Format: "i420"}, true
}
