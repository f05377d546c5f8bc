// Package vpx wraps the libvpx VP9 decoder.
package vpx

import (
	"fmt"
	"unsafe"

	"github.com/qkepia/muhpixels/codec"
)

/*
#cgo pkg-config: vpx
#include <stdlib.h>
#include <vpx/vpx_decoder.h>
#include <vpx/vp8dx.h>
#include <vpx/vpx_image.h>

vpx_codec_iface_t *ifaceVP9Decoder() {
   return vpx_codec_vp9_dx();
}

// Allocates a zeroed decoder context
vpx_codec_ctx_t* newDecoderCtx() {
    return (vpx_codec_ctx_t*)calloc(1, sizeof(vpx_codec_ctx_t));
}

vpx_codec_err_t decoderInit(vpx_codec_ctx_t* ctx, vpx_codec_iface_t* iface) {
    vpx_codec_dec_cfg_t cfg = {0};
    return vpx_codec_dec_init_ver(ctx, iface, &cfg, 0, VPX_DECODER_ABI_VERSION);
}

vpx_codec_err_t decodeFrame(vpx_codec_ctx_t* ctx, const uint8_t* data, unsigned int data_sz) {
    return vpx_codec_decode(ctx, data, data_sz, NULL, 0);
}

vpx_image_t* getFrame(vpx_codec_ctx_t* ctx, vpx_codec_iter_t* iter) {
    return vpx_codec_get_frame(ctx, iter);
}

vpx_codec_err_t frameCorrupted(vpx_codec_ctx_t* ctx, int* corrupted) {
    return vpx_codec_control(ctx, VP8D_GET_FRAME_CORRUPTED, corrupted);
}

const char* errorDetail(vpx_codec_ctx_t* ctx) {
    return vpx_codec_error_detail(ctx);
}

vpx_codec_err_t destroyDecoderCtx(vpx_codec_ctx_t* ctx) {
    vpx_codec_err_t res = vpx_codec_destroy(ctx);
    free(ctx);
    return res;
}
*/
import "C"

// Profile is the only codec this decoder accepts.
var Profile = codec.VP9

type Decoder struct {
	codecCtx *C.vpx_codec_ctx_t
	closed   bool

	iter  C.vpx_codec_iter_t
	epoch codec.Epoch
}

// Open implements codec.Opener.
func Open(d codec.MediaDescriptor) (codec.Decoder, error) {
	dec, err := NewDecoder(d)
	if err != nil {
		return nil, err
	}
	return dec, nil
}

func NewDecoder(d codec.MediaDescriptor) (*Decoder, error) {
	if err := Profile.Check(d); err != nil {
		return nil, err
	}
	ctx := C.newDecoderCtx()
	if ctx == nil {
		return nil, fmt.Errorf("failed to allocate codec context")
	}
	if C.decoderInit(ctx, C.ifaceVP9Decoder()) != C.VPX_CODEC_OK {
		err := errorFrom(ctx, "failed to initialize decoder")
		C.free(unsafe.Pointer(ctx))
		return nil, err
	}
	return &Decoder{
		codecCtx: ctx,
	}, nil
}

func errorFrom(ctx *C.vpx_codec_ctx_t, op string) error {
	e := &codec.Error{
		Op:  op,
		Msg: C.GoString(C.vpx_codec_error(ctx)),
	}
	if detail := C.errorDetail(ctx); detail != nil {
		e.Detail = C.GoString(detail)
	}
	return e
}

// Decode implements codec.Decoder. Images from the previous call become
// invalid.
func (d *Decoder) Decode(unit []byte) error {
	if d.closed {
		return fmt.Errorf("decoder is closed")
	}
	d.epoch.Advance()
	d.iter = nil

	var data *C.uint8_t
	if len(unit) > 0 {
		data = (*C.uint8_t)(&unit[0])
	}
	if C.decodeFrame(d.codecCtx, data, C.uint(len(unit))) != C.VPX_CODEC_OK {
		return errorFrom(d.codecCtx, "failed to decode frame")
	}
	return nil
}

// NextImage implements codec.Decoder.
func (d *Decoder) NextImage() (*codec.Image, bool) {
	if d.closed {
		return nil, false
	}
	input := C.getFrame(d.codecCtx, &d.iter)
	if input == nil {
		return nil, false
	}

	img := &codec.Image{
		Format:       pixelFormat(input.fmt),
		Width:        int(input.d_w),
		Height:       int(input.d_h),
		XChromaShift: uint(input.x_chroma_shift),
		YChromaShift: uint(input.y_chroma_shift),
	}
	rows := [3]int{img.Height, img.ChromaHeight(), img.ChromaHeight()}
	for p := range 3 {
		stride := int(input.stride[p])
		img.Strides[p] = stride
		if input.planes[p] == nil || stride <= 0 {
			continue
		}
		img.Planes[p] = unsafe.Slice((*byte)(unsafe.Pointer(input.planes[p])), stride*rows[p])
	}
	d.epoch.Stamp(img)
	return img, true
}

// Corrupted implements codec.Decoder.
func (d *Decoder) Corrupted() (bool, error) {
	if d.closed {
		return false, fmt.Errorf("decoder is closed")
	}
	var corrupted C.int
	if C.frameCorrupted(d.codecCtx, &corrupted) != C.VPX_CODEC_OK {
		return false, errorFrom(d.codecCtx, "failed VP8D_GET_FRAME_CORRUPTED")
	}
	return corrupted != 0, nil
}

func (d *Decoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.epoch.Advance()
	if res := C.destroyDecoderCtx(d.codecCtx); res != C.VPX_CODEC_OK {
		return &codec.Error{
			Op:  "failed to destroy decoder",
			Msg: C.GoString(C.vpx_codec_err_to_string(res)),
		}
	}
	return nil
}

func pixelFormat(f C.vpx_img_fmt_t) codec.PixelFormat {
	switch f {
	case C.VPX_IMG_FMT_I420:
		return codec.FormatI420
	case C.VPX_IMG_FMT_YV12:
		return codec.FormatYV12
	case C.VPX_IMG_FMT_I422:
		return codec.FormatI422
	case C.VPX_IMG_FMT_I440:
		return codec.FormatI440
	case C.VPX_IMG_FMT_I444:
		return codec.FormatI444
	case C.VPX_IMG_FMT_NV12:
		return codec.FormatNV12
	case C.VPX_IMG_FMT_I42016:
		return codec.FormatI42016
	default:
		return codec.FormatUnknown
	}
}
