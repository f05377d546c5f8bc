// Package fakecodec provides a VP9 decoder stand-in for tests. Each
// non-empty unit decodes to one uniform picture whose luma is the unit's
// first byte; a second byte of 1 marks the picture corrupted.
package fakecodec

import (
	"github.com/qkepia/muhpixels/codec"
)

type Decoder struct {
	desc      codec.MediaDescriptor
	epoch     codec.Epoch
	img       *codec.Image
	corrupted bool
}

// Open implements codec.Opener. Descriptors without dimensions decode to
// 2x2 pictures.
func Open(d codec.MediaDescriptor) (codec.Decoder, error) {
	if err := codec.VP9.Check(d); err != nil {
		return nil, err
	}
	if d.Width <= 0 || d.Height <= 0 {
		d.Width, d.Height = 2, 2
	}
	return &Decoder{desc: d}, nil
}

func (d *Decoder) Decode(unit []byte) error {
	d.epoch.Advance()
	d.img = nil
	d.corrupted = false
	if len(unit) == 0 {
		return nil
	}
	d.corrupted = len(unit) > 1 && unit[1] == 1

	w, h := d.desc.Width, d.desc.Height
	cw, ch := (w+1)/2, (h+1)/2
	img := &codec.Image{
		Format:       codec.FormatI420,
		Width:        w,
		Height:       h,
		Planes:       [3][]byte{fill(w*h, unit[0]), fill(cw*ch, 128), fill(cw*ch, 128)},
		Strides:      [3]int{w, cw, cw},
		XChromaShift: 1,
		YChromaShift: 1,
	}
	d.epoch.Stamp(img)
	d.img = img
	return nil
}

func (d *Decoder) NextImage() (*codec.Image, bool) {
	img := d.img
	d.img = nil
	return img, img != nil
}

func (d *Decoder) Corrupted() (bool, error) {
	return d.corrupted, nil
}

func (d *Decoder) Close() error {
	return nil
}

func fill(n int, b byte) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = b
	}
	return p
}
