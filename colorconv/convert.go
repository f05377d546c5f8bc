// Package colorconv converts decoded 4:2:0 planar images to packed RGB.
package colorconv

import (
	"errors"
	"fmt"

	"github.com/qkepia/muhpixels/codec"
)

var (
	ErrUnsupportedFormat      = errors.New("unsupported pixel format")
	ErrUnsupportedSubsampling = errors.New("unsupported chroma subsampling")
)

// BT.601 full range coefficients in 16.16 fixed point.
const (
	crToR = 91881  // 1.402
	cbToG = 22544  // 0.344
	crToG = 46793  // 0.714
	cbToB = 116130 // 1.772
	half  = 1 << 15
)

// Convert writes img into dst, resizing dst to the image dimensions. Each
// chroma sample is shared by the 2x2 luma block it covers.
func Convert(dst *RGBFrame, img *codec.Image) error {
	if !img.Valid() {
		return codec.ErrStaleImage
	}
	if !img.Format.Planar420() {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, img.Format)
	}
	cw, ch := img.ChromaWidth(), img.ChromaHeight()
	if 2*cw != img.Width || 2*ch != img.Height {
		return fmt.Errorf("%w: luma %vx%v, chroma %vx%v", ErrUnsupportedSubsampling, img.Width, img.Height, cw, ch)
	}

	dst.Resize(img.Width, img.Height)
	stride := dst.Stride()
	for j := range ch {
		y0 := img.Row(codec.PlaneY, 2*j)
		y1 := img.Row(codec.PlaneY, 2*j+1)
		u := img.Row(codec.PlaneU, j)
		v := img.Row(codec.PlaneV, j)
		top := dst.Pix[dst.PixOffset(0, 2*j):]
		bottom := top[stride:]

		for i := range cw {
			dr, dg, db := chroma(u[i], v[i])
			put(top[6*i:], y0[2*i], dr, dg, db)
			put(top[6*i+3:], y0[2*i+1], dr, dg, db)
			put(bottom[6*i:], y1[2*i], dr, dg, db)
			put(bottom[6*i+3:], y1[2*i+1], dr, dg, db)
		}
	}
	return nil
}

// chroma returns the offsets a (U, V) pair adds to each channel.
func chroma(u, v uint8) (dr, dg, db int) {
	cb := int(u) - 128
	cr := int(v) - 128
	dr = (crToR*cr + half) >> 16
	dg = -((cbToG*cb + crToG*cr + half) >> 16)
	db = (cbToB*cb + half) >> 16
	return dr, dg, db
}

func put(p []byte, y uint8, dr, dg, db int) {
	p[0] = clamp(int(y) + dr)
	p[1] = clamp(int(y) + dg)
	p[2] = clamp(int(y) + db)
}

func clamp(x int) uint8 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}
