package webm

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qkepia/muhpixels/bytesource"
	"github.com/qkepia/muhpixels/codec"
	"github.com/qkepia/muhpixels/demux"
	"github.com/qkepia/muhpixels/internal/webmtest"
)

var avTracks = []webmtest.Track{
	{Number: 1, Type: webmtest.TrackAudio, CodecID: "A_OPUS"},
	{Number: 2, Type: webmtest.TrackVideo, CodecID: "V_VP9", Width: 320, Height: 240},
}

func TestOpenRejectsNonEBML(t *testing.T) {
	_, err := Open(bytesource.NewMemory([]byte("DKIF not a webm file")), nil)
	assert.ErrorIs(t, err, demux.ErrNotRecognized)

	_, err = Open(bytesource.NewMemory([]byte{0x1a}), nil)
	assert.ErrorIs(t, err, demux.ErrNotRecognized)
}

func TestOpenRejectsUnknownDocType(t *testing.T) {
	b := webmtest.Build(t, "notwebm", avTracks)
	_, err := Open(bytesource.NewMemory(b), nil)
	assert.ErrorIs(t, err, demux.ErrNotRecognized)
}

func TestTracks(t *testing.T) {
	b := webmtest.Build(t, "webm", avTracks)
	d, err := Open(bytesource.NewMemory(b), nil)
	require.NoError(t, err)
	defer d.Close()

	n, err := d.TrackCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	tt, err := d.TrackType(0)
	require.NoError(t, err)
	assert.Equal(t, demux.TrackAudio, tt)

	tt, err = d.TrackType(1)
	require.NoError(t, err)
	assert.Equal(t, demux.TrackVideo, tt)

	_, err = d.TrackType(2)
	assert.Error(t, err)

	f, err := d.TrackCodec(1)
	require.NoError(t, err)
	assert.Equal(t, codec.VP9.Fourcc, f)

	_, err = d.TrackCodec(0)
	assert.ErrorIs(t, err, codec.ErrUnsupportedCodec)

	w, h, err := d.VideoParams(1)
	require.NoError(t, err)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)

	_, _, err = d.VideoParams(0)
	assert.Error(t, err)
}

func TestPacketsAndChunks(t *testing.T) {
	b := webmtest.Build(t, "matroska", avTracks,
		[]webmtest.Block{
			{Track: 1, Timecode: 0, Chunks: [][]byte{{0xa0}}},
			{Track: 2, Timecode: 0, Chunks: [][]byte{{1, 1}, {1, 2, 3}}},
		},
		[]webmtest.Block{
			{Track: 2, Timecode: 0, Chunks: [][]byte{{2}}},
		},
	)
	d, err := Open(bytesource.NewMemory(b), nil)
	require.NoError(t, err)
	defer d.Close()

	type chunkList struct {
		track  int
		chunks [][]byte
	}
	var got []chunkList
	for {
		p, err := d.ReadPacket()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		track, err := p.Track()
		require.NoError(t, err)
		n, err := p.Count()
		require.NoError(t, err)

		cl := chunkList{track: track}
		for i := range n {
			data, err := p.Data(i)
			require.NoError(t, err)
			cl.chunks = append(cl.chunks, append([]byte(nil), data...))
		}
		_, err = p.Data(n)
		assert.Error(t, err)

		p.Release()
		p.Release()
		_, err = p.Data(0)
		assert.Error(t, err)

		got = append(got, cl)
	}

	assert.Equal(t, []chunkList{
		{track: 0, chunks: [][]byte{{0xa0}}},
		{track: 1, chunks: [][]byte{{1, 1}, {1, 2, 3}}},
		{track: 1, chunks: [][]byte{{2}}},
	}, got)
}

func TestReadPacketAfterClose(t *testing.T) {
	b := webmtest.Build(t, "webm", avTracks)
	d, err := Open(bytesource.NewMemory(b), nil)
	require.NoError(t, err)
	require.NoError(t, d.Close())

	_, err = d.ReadPacket()
	assert.Error(t, err)
}
