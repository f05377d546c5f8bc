package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFourcc(t *testing.T) {
	f, err := ParseFourcc("VP90")
	require.NoError(t, err)
	assert.Equal(t, Fourcc(0x30395056), f)
	assert.Equal(t, "VP90", f.String())

	_, err = ParseFourcc("VP9")
	assert.Error(t, err)
}

func TestProfileMatchesMasked(t *testing.T) {
	vp90, err := ParseFourcc("VP90")
	require.NoError(t, err)
	vp80, err := ParseFourcc("VP80")
	require.NoError(t, err)

	assert.True(t, VP9.Matches(vp90))
	assert.True(t, VP9.Matches(VP9.Fourcc))
	assert.False(t, VP9.Matches(vp80))
	assert.True(t, VP8.Matches(vp80))
}

func TestProfileCheck(t *testing.T) {
	assert.NoError(t, VP9.Check(MediaDescriptor{Fourcc: 0x30395056}))
	assert.ErrorIs(t, VP9.Check(MediaDescriptor{Fourcc: VP8.Fourcc}), ErrUnsupportedCodec)
	assert.ErrorIs(t, VP9.Check(MediaDescriptor{}), ErrUnsupportedCodec)
}

func TestProfileByName(t *testing.T) {
	p, err := ProfileByName("VP9")
	require.NoError(t, err)
	assert.Equal(t, VP9, p)

	_, err = ProfileByName("h264")
	assert.ErrorIs(t, err, ErrUnsupportedCodec)
}

func TestFrameRate(t *testing.T) {
	num, den := MediaDescriptor{TimebaseNum: 1, TimebaseDen: 30}.FrameRate(25, 1)
	assert.Equal(t, 30, num)
	assert.Equal(t, 1, den)

	num, den = MediaDescriptor{}.FrameRate(25, 1)
	assert.Equal(t, 25, num)
	assert.Equal(t, 1, den)
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Op: "decode", Msg: "Corrupt frame", Detail: "invalid partition size"}
	assert.Equal(t, "decode: Corrupt frame: invalid partition size", err.Error())

	err = &Error{Op: "init", Msg: "Out of memory"}
	assert.Equal(t, "init: Out of memory", err.Error())
}
