package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// Fourcc is a four character code stored little-endian, as found in IVF
// headers ("VP90" is 0x30395056).
type Fourcc uint32

func ParseFourcc(s string) (Fourcc, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("invalid fourcc %q: want 4 bytes", s)
	}
	return Fourcc(binary.LittleEndian.Uint32([]byte(s))), nil
}

func (f Fourcc) String() string {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(f))
	for i, c := range b {
		if c < 0x20 || c > 0x7e {
			b[i] = '.'
		}
	}
	return string(b[:])
}

// Profile identifies a codec by its fourcc under a mask of significant bits.
type Profile struct {
	Name   string
	Fourcc Fourcc
	Mask   Fourcc
}

var (
	VP8 = Profile{Name: "vp8", Fourcc: 0x00385056, Mask: 0x00FFFFFF}
	VP9 = Profile{Name: "vp9", Fourcc: 0x00395056, Mask: 0x00FFFFFF}
)

var profiles = []Profile{VP8, VP9}

var ErrUnsupportedCodec = errors.New("unsupported codec")

func (p Profile) String() string {
	return p.Name
}

// Matches reports whether f identifies p once the don't-care bits are masked
// off.
func (p Profile) Matches(f Fourcc) bool {
	return f&p.Mask == p.Fourcc
}

// Check rejects descriptors that do not belong to p.
func (p Profile) Check(d MediaDescriptor) error {
	if !p.Matches(d.Fourcc) {
		return fmt.Errorf("%w: fourcc %v (%#08x), want %v", ErrUnsupportedCodec, d.Fourcc, uint32(d.Fourcc), p.Name)
	}
	return nil
}

func ProfileByName(name string) (Profile, error) {
	for _, p := range profiles {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnsupportedCodec, name)
}

// MediaDescriptor describes the video elementary stream of a container.
type MediaDescriptor struct {
	Fourcc Fourcc
	Width  int
	Height int

	// Frame rate as TimebaseDen/TimebaseNum frames per second. Zero when the
	// container does not declare one.
	TimebaseNum int
	TimebaseDen int
}

// FrameRate returns the declared frame rate as numerator and denominator,
// falling back to defNum/defDen if the container does not declare one.
func (d MediaDescriptor) FrameRate(defNum, defDen int) (int, int) {
	if d.TimebaseNum <= 0 || d.TimebaseDen <= 0 {
		return defNum, defDen
	}
	return d.TimebaseDen, d.TimebaseNum
}
