// Package codecdetect maps IVF codec tags to decoder implementations.
package codecdetect

import (
	"errors"
	"fmt"

	"github.com/user/vpxconform/pkg/ivf"
	"github.com/user/vpxconform/pkg/ports"
)

// ErrUnsupportedCodec is returned for any fourcc without a decoder.
var ErrUnsupportedCodec = errors.New("codecdetect: unsupported codec")

var (
	fourccVP9 = ivf.NewFourCC("VP90")
	fourccVP8 = ivf.NewFourCC("VP80")
)

// Resolve returns the decoder interface selected by fourcc.
func Resolve(fourcc ivf.FourCC) (ports.Codec, error) {
	switch fourcc {
	case fourccVP9:
		return ports.CodecVP9, nil
	case fourccVP8:
		return ports.CodecVP8, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedCodec, fourcc)
	}
}
