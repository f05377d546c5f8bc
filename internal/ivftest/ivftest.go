// Package ivftest builds framed video streams for tests.
package ivftest

import (
	"bytes"
	"encoding/binary"
)

// Framed returns payloads framed with 12-byte IVF frame headers.
func Framed(payloads ...[]byte) []byte {
	var buf bytes.Buffer
	for i, p := range payloads {
		binary.Write(&buf, binary.LittleEndian, uint32(len(p)))
		binary.Write(&buf, binary.LittleEndian, uint64(i))
		buf.Write(p)
	}
	return buf.Bytes()
}

// File returns an IVF file with a 30 fps timebase.
func File(fourcc string, width, height uint16, payloads ...[]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("DKIF")
	binary.Write(&buf, binary.LittleEndian, uint16(0))  // version
	binary.Write(&buf, binary.LittleEndian, uint16(32)) // header size
	buf.WriteString(fourcc)
	binary.Write(&buf, binary.LittleEndian, width)
	binary.Write(&buf, binary.LittleEndian, height)
	binary.Write(&buf, binary.LittleEndian, uint32(30)) // timebase denominator
	binary.Write(&buf, binary.LittleEndian, uint32(1))  // timebase numerator
	binary.Write(&buf, binary.LittleEndian, uint32(len(payloads)))
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	buf.Write(Framed(payloads...))
	return buf.Bytes()
}
