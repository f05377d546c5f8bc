package sink

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mengelbart/y4m"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qkepia/muhpixels/codec"
	"github.com/qkepia/muhpixels/colorconv"
	"github.com/qkepia/muhpixels/pipeline"
)

// padded returns a 4x2 image whose rows are followed by junk bytes.
func padded(base byte) *codec.Image {
	return &codec.Image{
		Format: codec.FormatI420,
		Width:  4,
		Height: 2,
		Planes: [3][]byte{
			{base, base + 1, base + 2, base + 3, 0xee, 0xee, base + 4, base + 5, base + 6, base + 7, 0xee, 0xee},
			{base + 8, base + 9, 0xee},
			{base + 10, base + 11, 0xee},
		},
		Strides:      [3]int{6, 3, 3},
		XChromaShift: 1,
		YChromaShift: 1,
	}
}

func packed(base byte) []byte {
	out := make([]byte, 12)
	for i := range out {
		out[i] = base + byte(i)
	}
	return out
}

func TestY4MRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	s := NewY4M(&buf, 25, 1)
	require.NoError(t, s.WriteFrame(pipeline.Frame{Image: padded(10)}))
	require.NoError(t, s.WriteFrame(pipeline.Frame{Index: 1, Image: padded(100)}))
	require.NoError(t, s.Close())

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("YUV4MPEG2 W4 H2 F25:1 Ip A0:0 C420jpeg\nFRAME\n")))

	r, hdr, err := y4m.NewReader(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, 4, hdr.Width)
	assert.EqualValues(t, 2, hdr.Height)
	assert.EqualValues(t, 25, hdr.FrameRate.Numerator)
	assert.EqualValues(t, 1, hdr.FrameRate.Denominator)
	assert.Equal(t, y4m.CST420jpeg, hdr.ChromaSubsampling)

	frame, _, err := r.ReadNextFrame()
	require.NoError(t, err)
	assert.Equal(t, packed(10), frame)
	frame, _, err = r.ReadNextFrame()
	require.NoError(t, err)
	assert.Equal(t, packed(100), frame)
}

func TestY4MRejectsSizeChange(t *testing.T) {
	var buf bytes.Buffer
	s := NewY4M(&buf, 30, 1)
	require.NoError(t, s.WriteImage(padded(0)))

	img := padded(0)
	img.Width = 2
	assert.ErrorIs(t, s.WriteImage(img), ErrFrameSize)
}

func TestY4MRejectsOtherFormats(t *testing.T) {
	var buf bytes.Buffer
	s := NewY4M(&buf, 30, 1)
	img := padded(0)
	img.Format = codec.FormatI444
	assert.Error(t, s.WriteImage(img))
	require.NoError(t, s.Close())
	assert.Zero(t, buf.Len())
}

func TestY4MRejectsStaleImage(t *testing.T) {
	var e codec.Epoch
	img := padded(0)
	e.Stamp(img)
	e.Advance()

	var buf bytes.Buffer
	assert.ErrorIs(t, NewY4M(&buf, 30, 1).WriteImage(img), codec.ErrStaleImage)
}

func TestCreateY4MUsesDeclaredFrameRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.y4m")
	s, err := CreateY4M(path, codec.MediaDescriptor{TimebaseNum: 1001, TimebaseDen: 30000})
	require.NoError(t, err)
	require.NoError(t, s.WriteImage(padded(0)))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("YUV4MPEG2 W4 H2 F30000:1001 ")))
}

func rgbFrame(v byte) *colorconv.RGBFrame {
	f := &colorconv.RGBFrame{}
	f.Resize(2, 2)
	for i := range f.Pix {
		f.Pix[i] = v
	}
	return f
}

func TestPNGSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	s := NewPNG(path)
	require.NoError(t, s.WriteFrame(pipeline.Frame{Index: 0}))
	require.NoError(t, s.WriteFrame(pipeline.Frame{Index: 1, RGB: rgbFrame(200)}))
	require.NoError(t, s.WriteFrame(pipeline.Frame{Index: 2, RGB: rgbFrame(10)}))
	assert.Equal(t, 1, s.Written())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	r, g, b, a := img.At(1, 1).RGBA()
	assert.Equal(t, [4]uint32{200 * 0x101, 200 * 0x101, 200 * 0x101, 0xffff}, [4]uint32{r, g, b, a})
}

func TestPNGPattern(t *testing.T) {
	dir := t.TempDir()
	s := NewPNG(filepath.Join(dir, "frame-%03d.png"))
	require.NoError(t, s.WriteFrame(pipeline.Frame{Index: 0, RGB: rgbFrame(1)}))
	require.NoError(t, s.WriteFrame(pipeline.Frame{Index: 1, RGB: rgbFrame(2)}))
	assert.Equal(t, 2, s.Written())
	assert.FileExists(t, filepath.Join(dir, "frame-000.png"))
	assert.FileExists(t, filepath.Join(dir, "frame-001.png"))
}

func TestPacedForwardsFrames(t *testing.T) {
	var got []int
	p := NewPaced(context.Background(), pipeline.SinkFunc(func(f pipeline.Frame) error {
		got = append(got, f.Index)
		return nil
	}), 1000)
	for i := range 3 {
		require.NoError(t, p.WriteFrame(pipeline.Frame{Index: i}))
	}
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestPacedStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	p := NewPaced(ctx, pipeline.SinkFunc(func(pipeline.Frame) error { return nil }), 0.01)
	require.NoError(t, p.WriteFrame(pipeline.Frame{}))
	assert.Error(t, p.WriteFrame(pipeline.Frame{}))
}

func TestMultiStopsAtFirstError(t *testing.T) {
	var calls []string
	s := Multi(
		pipeline.SinkFunc(func(pipeline.Frame) error { calls = append(calls, "a"); return nil }),
		pipeline.SinkFunc(func(pipeline.Frame) error { calls = append(calls, "b"); return os.ErrClosed }),
		pipeline.SinkFunc(func(pipeline.Frame) error { calls = append(calls, "c"); return nil }),
	)
	assert.ErrorIs(t, s.WriteFrame(pipeline.Frame{}), os.ErrClosed)
	assert.Equal(t, []string{"a", "b"}, calls)
}
