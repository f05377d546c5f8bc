package container

import "github.com/qkepia/muhpixels/demux"

// ChunkCursor tracks the packet currently being split into access units.
type ChunkCursor struct {
	packet demux.Packet
	index  int
	count  int
}

// Remaining reports whether the held packet has chunks left to emit.
func (c *ChunkCursor) Remaining() bool {
	return c.packet != nil && c.index < c.count
}

func (c *ChunkCursor) Index() int {
	return c.index
}

func (c *ChunkCursor) Count() int {
	return c.count
}

func (c *ChunkCursor) reset(p demux.Packet, count int) {
	c.packet = p
	c.index = 0
	c.count = count
}

// release gives the held packet back to the demuxer.
func (c *ChunkCursor) release() {
	if c.packet != nil {
		c.packet.Release()
		c.packet = nil
	}
	c.index = 0
	c.count = 0
}
