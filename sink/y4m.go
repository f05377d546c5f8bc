// Package sink writes decoded frames to files.
package sink

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/qkepia/muhpixels/codec"
	"github.com/qkepia/muhpixels/pipeline"
)

var ErrFrameSize = errors.New("frame size changed")

// Y4M writes decoded 4:2:0 pictures as a YUV4MPEG2 stream.
type Y4M struct {
	w      *bufio.Writer
	closer io.Closer

	fpsNum int
	fpsDen int

	headerWritten bool
	width         int
	height        int
}

// NewY4M writes to w. If w implements io.Closer, Close closes it.
func NewY4M(w io.Writer, fpsNum, fpsDen int) *Y4M {
	s := &Y4M{
		w:      bufio.NewWriter(w),
		fpsNum: fpsNum,
		fpsDen: fpsDen,
	}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// CreateY4M creates the file at path. The frame rate is taken from d,
// defaulting to 30 fps.
func CreateY4M(path string, d codec.MediaDescriptor) (*Y4M, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	num, den := d.FrameRate(30, 1)
	return NewY4M(file, num, den), nil
}

func (s *Y4M) WriteFrame(f pipeline.Frame) error {
	return s.WriteImage(f.Image)
}

func (s *Y4M) WriteImage(img *codec.Image) error {
	if !img.Valid() {
		return codec.ErrStaleImage
	}
	if !img.Format.Planar420() || img.XChromaShift != 1 || img.YChromaShift != 1 {
		return fmt.Errorf("y4m: unsupported pixel format %v", img.Format)
	}
	if !s.headerWritten {
		// YUV4MPEG2 W<width> H<height> F<fps_num>:<fps_den> Ip A<aspect> C<colorspace>
		_, err := fmt.Fprintf(s.w, "YUV4MPEG2 W%d H%d F%d:%d Ip A0:0 C420jpeg\n", img.Width, img.Height, s.fpsNum, s.fpsDen)
		if err != nil {
			return err
		}
		s.width, s.height = img.Width, img.Height
		s.headerWritten = true
	}
	if img.Width != s.width || img.Height != s.height {
		return fmt.Errorf("%w: %vx%v, stream is %vx%v", ErrFrameSize, img.Width, img.Height, s.width, s.height)
	}

	if _, err := s.w.WriteString("FRAME\n"); err != nil {
		return err
	}
	for p := range 3 {
		w, h := img.Width, img.Height
		if p != codec.PlaneY {
			w, h = img.ChromaWidth(), img.ChromaHeight()
		}
		for y := range h {
			if _, err := s.w.Write(img.Row(p, y)[:w]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Y4M) Close() error {
	err := s.w.Flush()
	if s.closer != nil {
		err = errors.Join(err, s.closer.Close())
	}
	return err
}
