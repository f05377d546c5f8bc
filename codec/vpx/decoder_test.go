package vpx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qkepia/muhpixels/codec"
	"github.com/qkepia/muhpixels/colorconv"
	"github.com/qkepia/muhpixels/container"
)

const sampleFile = "../../testdata/sample.webm"

func TestNewDecoderRejectsOtherCodecs(t *testing.T) {
	_, err := NewDecoder(codec.MediaDescriptor{Fourcc: codec.VP8.Fourcc, Width: 64, Height: 64})
	assert.ErrorIs(t, err, codec.ErrUnsupportedCodec)
}

func TestDecoderLifecycle(t *testing.T) {
	d, err := NewDecoder(codec.MediaDescriptor{Fourcc: codec.VP9.Fourcc, Width: 64, Height: 64})
	require.NoError(t, err)

	_, ok := d.NextImage()
	assert.False(t, ok)

	assert.NoError(t, d.Close())
	assert.NoError(t, d.Close())
	assert.Error(t, d.Decode([]byte{0}))
}

func TestDecodeGarbage(t *testing.T) {
	d, err := NewDecoder(codec.MediaDescriptor{Fourcc: codec.VP9.Fourcc})
	require.NoError(t, err)
	defer d.Close()

	err = d.Decode([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	var codecErr *codec.Error
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, "failed to decode frame", codecErr.Op)
	assert.NotEmpty(t, codecErr.Msg)
}

func TestDecodeSample(t *testing.T) {
	// video file must exist
	if _, err := os.Stat(sampleFile); os.IsNotExist(err) {
		t.Skip("sample video not found")
	}

	r, err := container.Open(sampleFile)
	require.NoError(t, err)
	defer r.Close()

	d, err := NewDecoder(r.Descriptor())
	require.NoError(t, err)
	defer d.Close()

	var frame colorconv.RGBFrame
	frames := 0
	for {
		unit, err := r.NextAccessUnit()
		if err != nil {
			break
		}
		require.NoError(t, d.Decode(unit.Bytes()))
		for {
			img, ok := d.NextImage()
			if !ok {
				break
			}
			require.NoError(t, colorconv.Convert(&frame, img))
			assert.Equal(t, r.Descriptor().Width, frame.Width)
			frames++
		}
		_, err = d.Corrupted()
		require.NoError(t, err)
	}
	assert.Positive(t, frames)
}
