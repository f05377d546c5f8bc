package pipeline

import (
	"github.com/qkepia/muhpixels/codec"
	"github.com/qkepia/muhpixels/colorconv"
)

// Frame is one decoded picture as handed to sinks. Image is a view into
// decoder memory and must not be retained past WriteFrame; use Image.Clone
// to keep it.
type Frame struct {
	// Index counts decoded frames from zero.
	Index int
	Image *codec.Image
	// RGB holds the converted picture if this frame was converted, nil
	// otherwise. It is reused for later conversions.
	RGB *colorconv.RGBFrame
}

type Sink interface {
	WriteFrame(Frame) error
}

type SinkFunc func(Frame) error

func (f SinkFunc) WriteFrame(frame Frame) error {
	return f(frame)
}
