package container

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the framing of an input file.
type Kind int

const (
	// Raw streams prefix each access unit with a 4 byte little-endian length.
	Raw Kind = iota
	// LengthPrefixed streams use IVF style 12 byte frame headers: a 4 byte
	// little-endian length followed by an 8 byte timestamp.
	LengthPrefixed
	// Chunked streams are block containers read through a demux.Demuxer.
	Chunked
)

const (
	rawFrameHeaderSize = 4
	ivfFrameHeaderSize = 12
)

func (k Kind) String() string {
	switch k {
	case Raw:
		return "raw"
	case LengthPrefixed:
		return "ivf"
	case Chunked:
		return "chunked"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) frameHeaderSize() int {
	if k == LengthPrefixed {
		return ivfFrameHeaderSize
	}
	return rawFrameHeaderSize
}

// ParseKind parses the name of a fallback framing: "raw" or "ivf".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "raw":
		return Raw, nil
	case "ivf", "length-prefixed":
		return LengthPrefixed, nil
	default:
		return 0, fmt.Errorf("unknown container kind %q", s)
	}
}

var (
	ErrUnrecognizedContainer = errors.New("unrecognized input file type")
	ErrNoVideoTrack          = errors.New("no video track")
	ErrDemux                 = errors.New("demux error")
	ErrFraming               = errors.New("failed to read frame size")
	ErrTruncatedUnit         = errors.New("failed to read full frame")
	ErrOversizeUnit          = errors.New("invalid frame size")
)
