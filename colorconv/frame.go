package colorconv

import (
	"image"
	"image/color"
)

// RGBFrame is a packed 8 bit RGB image, three bytes per pixel, rows stored
// top to bottom without padding.
type RGBFrame struct {
	Width  int
	Height int
	Pix    []byte
}

// Resize sets the frame dimensions and clears all pixels.
func (f *RGBFrame) Resize(width, height int) {
	n := 3 * width * height
	if cap(f.Pix) < n {
		f.Pix = make([]byte, n)
	} else {
		f.Pix = f.Pix[:n]
		clear(f.Pix)
	}
	f.Width = width
	f.Height = height
}

func (f *RGBFrame) Stride() int {
	return 3 * f.Width
}

func (f *RGBFrame) PixOffset(x, y int) int {
	return y*f.Stride() + 3*x
}

func (f *RGBFrame) RGBAt(x, y int) (r, g, b uint8) {
	i := f.PixOffset(x, y)
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Clone returns a copy that does not share pixel memory with f.
func (f *RGBFrame) Clone() *RGBFrame {
	return &RGBFrame{
		Width:  f.Width,
		Height: f.Height,
		Pix:    append([]byte(nil), f.Pix...),
	}
}

// ColorModel implements image.Image.
func (f *RGBFrame) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (f *RGBFrame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// At implements image.Image.
func (f *RGBFrame) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(f.Bounds())) {
		return color.RGBA{}
	}
	r, g, b := f.RGBAt(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
