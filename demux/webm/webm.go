// Package webm implements the demux contract for Matroska and WebM files.
package webm

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/at-wat/ebml-go"

	"github.com/qkepia/muhpixels/bytesource"
	"github.com/qkepia/muhpixels/codec"
	"github.com/qkepia/muhpixels/demux"
)

var ebmlMagic = []byte{0x1a, 0x45, 0xdf, 0xa3}

const (
	trackTypeVideo = 1
	trackTypeAudio = 2
)

type document struct {
	Header  header  `ebml:"EBML"`
	Segment segment `ebml:"Segment"`
}

type header struct {
	EBMLVersion     uint64 `ebml:"EBMLVersion,omitempty"`
	EBMLReadVersion uint64 `ebml:"EBMLReadVersion,omitempty"`
	EBMLDocType     string `ebml:"EBMLDocType"`
}

type segment struct {
	Info    info      `ebml:"Info"`
	Tracks  tracks    `ebml:"Tracks"`
	Cluster []cluster `ebml:"Cluster"`
}

type info struct {
	TimecodeScale uint64 `ebml:"TimecodeScale,omitempty"`
}

type tracks struct {
	TrackEntry []trackEntry `ebml:"TrackEntry"`
}

type trackEntry struct {
	TrackNumber uint64 `ebml:"TrackNumber"`
	TrackType   uint64 `ebml:"TrackType"`
	CodecID     string `ebml:"CodecID"`
	Video       video  `ebml:"Video"`
}

type video struct {
	PixelWidth  uint64 `ebml:"PixelWidth"`
	PixelHeight uint64 `ebml:"PixelHeight"`
}

type cluster struct {
	Timecode    uint64       `ebml:"Timecode"`
	SimpleBlock []ebml.Block `ebml:"SimpleBlock,omitempty"`
	BlockGroup  []blockGroup `ebml:"BlockGroup,omitempty"`
}

type blockGroup struct {
	Block ebml.Block `ebml:"Block"`
}

var codecs = map[string]codec.Fourcc{
	"V_VP8": codec.VP8.Fourcc,
	"V_VP9": codec.VP9.Fourcc,
}

// Demuxer reads a whole segment on Open and hands out its blocks as packets
// in time order.
type Demuxer struct {
	logger *slog.Logger

	tracks  []trackEntry
	numbers map[uint64]int

	blocks []*ebml.Block
	next   int
	closed bool
}

// Open parses src as a Matroska or WebM file. It returns an error wrapping
// demux.ErrNotRecognized if src does not start with an EBML header of either
// doc type.
func Open(src bytesource.Source, logger *slog.Logger) (*Demuxer, error) {
	if logger == nil {
		logger = bytesource.Logger(src)
	}
	magic := make([]byte, len(ebmlMagic))
	if _, err := io.ReadFull(src, magic); err != nil {
		return nil, fmt.Errorf("%w: %w", demux.ErrNotRecognized, err)
	}
	if !bytes.Equal(magic, ebmlMagic) {
		return nil, fmt.Errorf("%w: no EBML signature", demux.ErrNotRecognized)
	}
	if _, err := src.Seek(0, bytesource.Start); err != nil {
		return nil, err
	}

	var doc document
	if err := ebml.Unmarshal(src, &doc, ebml.WithIgnoreUnknown(true)); err != nil {
		offset, _ := src.Tell()
		return nil, fmt.Errorf("%w: parse EBML at offset %v: %w", demux.ErrNotRecognized, offset, err)
	}
	switch doc.Header.EBMLDocType {
	case "webm", "matroska":
	default:
		return nil, fmt.Errorf("%w: doc type %q", demux.ErrNotRecognized, doc.Header.EBMLDocType)
	}

	d := &Demuxer{
		logger:  logger,
		tracks:  doc.Segment.Tracks.TrackEntry,
		numbers: make(map[uint64]int, len(doc.Segment.Tracks.TrackEntry)),
	}
	for i, t := range d.tracks {
		d.numbers[t.TrackNumber] = i
	}
	for i := range doc.Segment.Cluster {
		d.blocks = append(d.blocks, clusterBlocks(&doc.Segment.Cluster[i])...)
	}
	logger.Debug(
		"parsed segment",
		"doc-type", doc.Header.EBMLDocType,
		"tracks", len(d.tracks),
		"clusters", len(doc.Segment.Cluster),
		"blocks", len(d.blocks),
	)
	return d, nil
}

// clusterBlocks orders the simple blocks and block groups of c by their
// relative timecode.
func clusterBlocks(c *cluster) []*ebml.Block {
	blocks := make([]*ebml.Block, 0, len(c.SimpleBlock)+len(c.BlockGroup))
	for i := range c.SimpleBlock {
		blocks = append(blocks, &c.SimpleBlock[i])
	}
	for i := range c.BlockGroup {
		blocks = append(blocks, &c.BlockGroup[i].Block)
	}
	if len(c.BlockGroup) > 0 {
		slices.SortStableFunc(blocks, func(a, b *ebml.Block) int {
			return cmp.Compare(a.Timecode, b.Timecode)
		})
	}
	return blocks
}

func (d *Demuxer) track(i int) (*trackEntry, error) {
	if i < 0 || i >= len(d.tracks) {
		return nil, fmt.Errorf("track index %v out of range [0, %v)", i, len(d.tracks))
	}
	return &d.tracks[i], nil
}

func (d *Demuxer) TrackCount() (int, error) {
	return len(d.tracks), nil
}

func (d *Demuxer) TrackType(i int) (demux.TrackType, error) {
	t, err := d.track(i)
	if err != nil {
		return demux.TrackUnknown, err
	}
	switch t.TrackType {
	case trackTypeVideo:
		return demux.TrackVideo, nil
	case trackTypeAudio:
		return demux.TrackAudio, nil
	default:
		return demux.TrackUnknown, nil
	}
}

func (d *Demuxer) TrackCodec(i int) (codec.Fourcc, error) {
	t, err := d.track(i)
	if err != nil {
		return 0, err
	}
	f, ok := codecs[t.CodecID]
	if !ok {
		return 0, fmt.Errorf("%w: codec id %q", codec.ErrUnsupportedCodec, t.CodecID)
	}
	return f, nil
}

func (d *Demuxer) VideoParams(i int) (int, int, error) {
	t, err := d.track(i)
	if err != nil {
		return 0, 0, err
	}
	if t.TrackType != trackTypeVideo {
		return 0, 0, fmt.Errorf("track %v is not a video track", i)
	}
	return int(t.Video.PixelWidth), int(t.Video.PixelHeight), nil
}

// ReadPacket implements demux.Demuxer.
func (d *Demuxer) ReadPacket() (demux.Packet, error) {
	if d.closed {
		return nil, fmt.Errorf("demuxer is closed")
	}
	if d.next >= len(d.blocks) {
		return nil, io.EOF
	}
	p := &packet{
		demuxer: d,
		index:   d.next,
		block:   d.blocks[d.next],
	}
	d.next++
	return p, nil
}

func (d *Demuxer) Close() error {
	d.closed = true
	d.blocks = nil
	return nil
}

type packet struct {
	demuxer *Demuxer
	index   int
	block   *ebml.Block
}

func (p *packet) Track() (int, error) {
	if p.block == nil {
		return 0, fmt.Errorf("packet released")
	}
	i, ok := p.demuxer.numbers[p.block.TrackNumber]
	if !ok {
		return 0, fmt.Errorf("block references unknown track number %v", p.block.TrackNumber)
	}
	return i, nil
}

func (p *packet) Count() (int, error) {
	if p.block == nil {
		return 0, fmt.Errorf("packet released")
	}
	return len(p.block.Data), nil
}

// Data returns chunk i without copying.
func (p *packet) Data(i int) ([]byte, error) {
	if p.block == nil {
		return nil, fmt.Errorf("packet released")
	}
	if i < 0 || i >= len(p.block.Data) {
		return nil, fmt.Errorf("chunk %v out of range [0, %v)", i, len(p.block.Data))
	}
	return p.block.Data[i], nil
}

// Release drops the packet's data so the demuxer no longer retains it.
func (p *packet) Release() {
	if p.block == nil {
		return
	}
	p.block.Data = nil
	p.block = nil
	if !p.demuxer.closed {
		p.demuxer.blocks[p.index] = nil
	}
}
