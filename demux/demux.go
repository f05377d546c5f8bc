// Package demux defines the contract of block container demuxers: track
// enumeration and iteration over time ordered packets, each of which may hold
// several chunks.
package demux

import (
	"errors"
	"log/slog"

	"github.com/qkepia/muhpixels/bytesource"
	"github.com/qkepia/muhpixels/codec"
)

type TrackType int

const (
	TrackUnknown TrackType = iota
	TrackVideo
	TrackAudio
)

func (t TrackType) String() string {
	switch t {
	case TrackVideo:
		return "video"
	case TrackAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// ErrNotRecognized is returned by an Opener when the source does not hold a
// container it can read.
var ErrNotRecognized = errors.New("container not recognized")

// Demuxer gives access to the tracks and packets of a block container.
// Tracks are addressed by index in [0, TrackCount()).
type Demuxer interface {
	TrackCount() (int, error)
	TrackType(track int) (TrackType, error)
	// TrackCodec returns the fourcc of the track's codec, or an error wrapping
	// codec.ErrUnsupportedCodec.
	TrackCodec(track int) (codec.Fourcc, error)
	VideoParams(track int) (width, height int, err error)
	// ReadPacket returns the next packet of any track, or io.EOF.
	ReadPacket() (Packet, error)
	Close() error
}

// Packet is one block of a container. Chunk data is owned by the demuxer and
// must not be used after Release.
type Packet interface {
	Track() (int, error)
	Count() (int, error)
	Data(chunk int) ([]byte, error)
	Release()
}

// Opener initializes a Demuxer over src.
type Opener func(src bytesource.Source, logger *slog.Logger) (Demuxer, error)
