//go:build !cgo || novpx

package vpxdecoder

import "github.com/user/vpxconform/pkg/ports"

const available = false

func openDecoder(codec ports.Codec, cfg ports.DecoderConfig) (ports.DecoderHandle, error) {
	return nil, ErrNotAvailable
}
