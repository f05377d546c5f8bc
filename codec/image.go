package codec

import (
	"errors"
	"fmt"
)

type PixelFormat int

const (
	FormatUnknown PixelFormat = iota
	FormatI420
	FormatYV12
	FormatI422
	FormatI440
	FormatI444
	FormatI444A
	FormatNV12
	FormatI42016
)

func (f PixelFormat) String() string {
	switch f {
	case FormatI420:
		return "I420"
	case FormatYV12:
		return "YV12"
	case FormatI422:
		return "I422"
	case FormatI440:
		return "I440"
	case FormatI444:
		return "I444"
	case FormatI444A:
		return "I444A"
	case FormatNV12:
		return "NV12"
	case FormatI42016:
		return "I42016"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// Planar420 reports whether f stores 8 bit 4:2:0 samples in three separate
// planes.
func (f PixelFormat) Planar420() bool {
	return f == FormatI420 || f == FormatYV12
}

const (
	PlaneY = 0
	PlaneU = 1
	PlaneV = 2
)

var ErrStaleImage = errors.New("decoded image used after next decode call")

// Image is a planar image. Images produced by a Decoder are borrowed views
// stamped with the decoder's Epoch; use Clone to keep one beyond the next
// Decode call.
type Image struct {
	Format PixelFormat
	Width  int
	Height int

	Planes  [3][]byte
	Strides [3]int

	XChromaShift uint
	YChromaShift uint

	epoch *Epoch
	gen   uint64
}

// ChromaWidth is the width of the U and V planes.
func (img *Image) ChromaWidth() int {
	if img.XChromaShift == 0 {
		return img.Width
	}
	return (1 + img.Width) >> img.XChromaShift
}

// ChromaHeight is the height of the U and V planes.
func (img *Image) ChromaHeight() int {
	if img.YChromaShift == 0 {
		return img.Height
	}
	return (1 + img.Height) >> img.YChromaShift
}

// Row returns row y of the given plane, addressed by stride.
func (img *Image) Row(plane, y int) []byte {
	off := y * img.Strides[plane]
	return img.Planes[plane][off:]
}

// Valid reports whether the image may still be read.
func (img *Image) Valid() bool {
	if img == nil {
		return false
	}
	return img.epoch == nil || img.epoch.n == img.gen
}

// Clone copies the visible samples into an owned image that stays valid
// independently of the decoder.
func (img *Image) Clone() (*Image, error) {
	if !img.Valid() {
		return nil, ErrStaleImage
	}
	out := &Image{
		Format:       img.Format,
		Width:        img.Width,
		Height:       img.Height,
		XChromaShift: img.XChromaShift,
		YChromaShift: img.YChromaShift,
	}
	for p := range 3 {
		w, h := img.Width, img.Height
		if p != PlaneY {
			w, h = img.ChromaWidth(), img.ChromaHeight()
		}
		if img.Planes[p] == nil {
			continue
		}
		out.Strides[p] = w
		out.Planes[p] = make([]byte, w*h)
		for y := range h {
			copy(out.Planes[p][y*w:(y+1)*w], img.Row(p, y)[:w])
		}
	}
	return out, nil
}

// Epoch invalidates the images a decoder handed out when it advances.
type Epoch struct {
	n uint64
}

// Advance invalidates every image stamped so far.
func (e *Epoch) Advance() {
	e.n++
}

// Stamp binds img to the current epoch.
func (e *Epoch) Stamp(img *Image) {
	img.epoch = e
	img.gen = e.n
}
