package codec

import "fmt"

// Decoder is the contract of an external video decoder. Images returned by
// NextImage are views into decoder owned memory and become invalid with the
// next call to Decode.
type Decoder interface {
	// Decode submits one access unit.
	Decode(unit []byte) error
	// NextImage returns the next image produced by the last Decode call. It may
	// be called repeatedly; ok is false once all images have been returned.
	NextImage() (img *Image, ok bool)
	// Corrupted reports whether the last decoded frame was corrupted.
	Corrupted() (bool, error)
	Close() error
}

// Opener creates a Decoder for a stream. It must reject descriptors of
// codecs it cannot decode with ErrUnsupportedCodec.
type Opener func(MediaDescriptor) (Decoder, error)

// Error wraps a failure reported by an external decoder together with the
// decoder's diagnostic text.
type Error struct {
	Op     string
	Msg    string
	Detail string
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%v: %v", e.Op, e.Msg)
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	return s
}
