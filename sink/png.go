package sink

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/qkepia/muhpixels/colorconv"
	"github.com/qkepia/muhpixels/pipeline"
)

// PNG writes converted frames as PNG files. A pattern containing a verb is
// formatted with the frame index, one file per converted frame; any other
// pattern names a single file that receives the first converted frame.
type PNG struct {
	pattern string
	written int
}

func NewPNG(pattern string) *PNG {
	return &PNG{pattern: pattern}
}

// Written returns the number of files written.
func (s *PNG) Written() int {
	return s.written
}

func (s *PNG) WriteFrame(f pipeline.Frame) error {
	if f.RGB == nil {
		return nil
	}
	name := s.pattern
	if strings.Contains(s.pattern, "%") {
		name = fmt.Sprintf(s.pattern, f.Index)
	} else if s.written > 0 {
		return nil
	}
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := EncodePNG(file, f.RGB); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	s.written++
	return nil
}

func EncodePNG(w io.Writer, f *colorconv.RGBFrame) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, f)
}
