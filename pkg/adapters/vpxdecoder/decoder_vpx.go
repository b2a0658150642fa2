//go:build cgo && !novpx

package vpxdecoder

/*
#cgo pkg-config: vpx
#include <stdlib.h>
#include <string.h>
#include <vpx/vpx_decoder.h>
#include <vpx/vp8dx.h>

// The context and the frame iterator live together in C memory.
typedef struct {
    vpx_codec_ctx_t ctx;
    vpx_codec_iter_t iter;
} decoder_t;

static vpx_codec_iface_t* vp9_interface() {
    return vpx_codec_vp9_dx();
}

static vpx_codec_iface_t* vp8_interface() {
    return vpx_codec_vp8_dx();
}

// vpx_codec_dec_init is a macro and cannot be called from Go directly.
static vpx_codec_err_t init_decoder(decoder_t *d, vpx_codec_iface_t *iface, unsigned int threads) {
    vpx_codec_dec_cfg_t cfg;
    memset(&cfg, 0, sizeof(cfg));
    cfg.threads = threads;
    return vpx_codec_dec_init(&d->ctx, iface, &cfg, 0);
}

static vpx_codec_err_t decode_frame(decoder_t *d, const uint8_t *data, unsigned int size) {
    return vpx_codec_decode(&d->ctx, data, size, NULL, 0);
}

static const char* error_message(decoder_t *d) {
    return vpx_codec_error(&d->ctx);
}

static const char* error_detail(decoder_t *d) {
    const char *detail = vpx_codec_error_detail(&d->ctx);
    return detail ? detail : vpx_codec_error(&d->ctx);
}

static void reset_iter(decoder_t *d) {
    d->iter = NULL;
}

static vpx_image_t* next_image(decoder_t *d) {
    return vpx_codec_get_frame(&d->ctx, &d->iter);
}

static void destroy_decoder(decoder_t *d) {
    vpx_codec_destroy(&d->ctx);
}

static unsigned int image_width(vpx_image_t *img) {
    return img->d_w;
}

static unsigned int image_height(vpx_image_t *img) {
    return img->d_h;
}

static unsigned int image_bit_depth(vpx_image_t *img) {
    return img->bit_depth;
}

static vpx_img_fmt_t image_format(vpx_image_t *img) {
    return img->fmt;
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/user/vpxconform/pkg/ports"
)

const available = true

// Decoder is one libvpx decoder context.
type Decoder struct {
	dec   *C.decoder_t
	codec ports.Codec
}

func openDecoder(codec ports.Codec, cfg ports.DecoderConfig) (ports.DecoderHandle, error) {
	var iface *C.vpx_codec_iface_t
	switch codec {
	case ports.CodecVP9:
		iface = C.vp9_interface()
	case ports.CodecVP8:
		iface = C.vp8_interface()
	}

	dec := (*C.decoder_t)(C.calloc(1, C.sizeof_decoder_t))
	if dec == nil {
		return nil, fmt.Errorf("%w: failed to allocate decoder context", ErrInitFailed)
	}

	if res := C.init_decoder(dec, iface, C.uint(cfg.Threads)); res != C.VPX_CODEC_OK {
		msg := C.GoString(C.error_message(dec))
		C.free(unsafe.Pointer(dec))
		return nil, fmt.Errorf("%w: %s", ErrInitFailed, msg)
	}

	return &Decoder{dec: dec, codec: codec}, nil
}

// Decode feeds one compressed frame to the decoder.
// An empty frame is passed as a flush request.
func (d *Decoder) Decode(data []byte) error {
	if d.dec == nil {
		return ErrClosed
	}

	var ptr *C.uint8_t
	if len(data) > 0 {
		ptr = (*C.uint8_t)(unsafe.Pointer(&data[0]))
	}

	if res := C.decode_frame(d.dec, ptr, C.uint(len(data))); res != C.VPX_CODEC_OK {
		return fmt.Errorf("%w: %s", ErrDecodeFailed, C.GoString(C.error_detail(d.dec)))
	}
	return nil
}

// Images starts a new pass over the frames produced by the last Decode.
func (d *Decoder) Images() ports.ImageCursor {
	if d.dec != nil {
		C.reset_iter(d.dec)
	}
	return &cursor{d: d}
}

// Close destroys the decoder context. Double close is safe.
func (d *Decoder) Close() {
	if d.dec != nil {
		C.destroy_decoder(d.dec)
		C.free(unsafe.Pointer(d.dec))
		d.dec = nil
	}
}

type cursor struct {
	d    *Decoder
	done bool
}

func (c *cursor) Next() (ports.Image, bool) {
	if c.done || c.d.dec == nil {
		return ports.Image{}, false
	}

	img := C.next_image(c.d.dec)
	if img == nil {
		c.done = true
		return ports.Image{}, false
	}

	return ports.Image{
		Width:    int(C.image_width(img)),
		Height:   int(C.image_height(img)),
		BitDepth: int(C.image_bit_depth(img)),
		Format:   formatName(C.image_format(img)),
	}, true
}

func formatName(f C.vpx_img_fmt_t) string {
	switch f {
	case C.VPX_IMG_FMT_I420:
		return "i420"
	case C.VPX_IMG_FMT_I422:
		return "i422"
	case C.VPX_IMG_FMT_I440:
		return "i440"
	case C.VPX_IMG_FMT_I444:
		return "i444"
	case C.VPX_IMG_FMT_I42016:
		return "i420p16"
	case C.VPX_IMG_FMT_I42216:
		return "i422p16"
	case C.VPX_IMG_FMT_I44016:
		return "i440p16"
	case C.VPX_IMG_FMT_I44416:
		return "i444p16"
	default:
		return "unknown"
	}
}
