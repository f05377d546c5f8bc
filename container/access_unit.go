package container

import "fmt"

const (
	// MaxUnitSize bounds the declared length of a framed access unit.
	MaxUnitSize = 256 * 1024 * 1024

	// rawSuspectSize is the length above which a raw stream is probably
	// something else.
	rawSuspectSize = 256 * 1024
)

// AccessUnit is one compressed frame. Framed streams read into an owned
// buffer that is reused across units and only ever grows; chunked streams
// hand out views into demuxer memory.
type AccessUnit struct {
	buf      []byte
	data     []byte
	borrowed bool
}

// Bytes returns the payload. It is valid until the next call to
// Reader.NextAccessUnit.
func (u *AccessUnit) Bytes() []byte {
	return u.data
}

func (u *AccessUnit) Len() int {
	return len(u.data)
}

// Cap returns the capacity of the owned buffer.
func (u *AccessUnit) Cap() int {
	return cap(u.buf)
}

// Borrowed reports whether the payload is owned by a demuxer.
func (u *AccessUnit) Borrowed() bool {
	return u.borrowed
}

// resize sets the payload length to n, growing the owned buffer to 2n when
// it is too small.
func (u *AccessUnit) resize(n int) ([]byte, error) {
	if n < 0 || n > MaxUnitSize {
		return nil, fmt.Errorf("%w (%v)", ErrOversizeUnit, n)
	}
	if n > cap(u.buf) {
		u.buf = make([]byte, 2*n)
	}
	u.data = u.buf[:n]
	u.borrowed = false
	return u.data, nil
}

func (u *AccessUnit) borrow(b []byte) {
	u.data = b
	u.borrowed = true
}
