// Package container detects the framing of a compressed video file and splits
// it into access units.
package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pion/webrtc/v4/pkg/media/ivfreader"

	"github.com/qkepia/muhpixels/bytesource"
	"github.com/qkepia/muhpixels/codec"
	"github.com/qkepia/muhpixels/demux"
	"github.com/qkepia/muhpixels/demux/webm"
)

const (
	ivfSignature      = "DKIF"
	ivfFileHeaderSize = 32
)

type Option func(*Reader) error

// WithFallbackKind selects the framing used when the input is not a block
// container. Without it such inputs are rejected.
func WithFallbackKind(k Kind) Option {
	return func(r *Reader) error {
		if k != Raw && k != LengthPrefixed {
			return fmt.Errorf("invalid fallback kind %v", k)
		}
		r.fallback = &k
		return nil
	}
}

// WithDescriptor sets the descriptor reported for framed inputs that carry
// no file header of their own.
func WithDescriptor(d codec.MediaDescriptor) Option {
	return func(r *Reader) error {
		r.desc = d
		return nil
	}
}

// WithDemuxer replaces the block container demuxer, which defaults to WebM.
func WithDemuxer(open demux.Opener) Option {
	return func(r *Reader) error {
		r.openDemuxer = open
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) error {
		r.logger = logger
		return nil
	}
}

func openWebM(src bytesource.Source, logger *slog.Logger) (demux.Demuxer, error) {
	d, err := webm.Open(src, logger)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Reader yields the access units of the video track of one input.
type Reader struct {
	src    bytesource.Source
	closer io.Closer
	logger *slog.Logger

	kind     Kind
	fallback *Kind
	desc     codec.MediaDescriptor

	openDemuxer demux.Opener
	demuxer     demux.Demuxer
	track       int
	cursor      ChunkCursor

	unit   AccessUnit
	hdr    [ivfFrameHeaderSize]byte
	closed bool
}

// Open opens the file at path and detects its container. The returned Reader
// owns the file.
func Open(path string, opts ...Option) (*Reader, error) {
	r, err := newReader(opts)
	if err != nil {
		return nil, err
	}
	f, err := bytesource.Open(path, bytesource.WithLogger(r.logger))
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	r.src = f
	r.closer = f
	if err := r.detect(); err != nil {
		return nil, errors.Join(err, f.Close())
	}
	return r, nil
}

// NewReader detects the container of src. If src implements io.Closer, the
// Reader closes it on Close.
func NewReader(src bytesource.Source, opts ...Option) (*Reader, error) {
	r, err := newReader(opts)
	if err != nil {
		return nil, err
	}
	r.src = src
	if c, ok := src.(io.Closer); ok {
		r.closer = c
	}
	if err := r.detect(); err != nil {
		return nil, err
	}
	return r, nil
}

func newReader(opts []Option) (*Reader, error) {
	r := &Reader{
		logger:      slog.Default(),
		openDemuxer: openWebM,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Reader) detect() error {
	d, err := r.openDemuxer(r.src, r.logger)
	if err == nil {
		r.kind = Chunked
		if err := r.initChunked(d); err != nil {
			return errors.Join(err, d.Close())
		}
		r.demuxer = d
		return nil
	}
	r.logger.Debug("input is not a block container", "error", err)

	if _, err := r.src.Seek(0, bytesource.Start); err != nil {
		return fmt.Errorf("rewind input: %w", err)
	}
	if r.fallback == nil {
		return ErrUnrecognizedContainer
	}
	r.kind = *r.fallback
	if r.kind == LengthPrefixed {
		return r.readIVFHeader()
	}
	return nil
}

func (r *Reader) initChunked(d demux.Demuxer) error {
	n, err := d.TrackCount()
	if err != nil {
		return fmt.Errorf("%w: track count: %w", ErrDemux, err)
	}
	r.track = -1
	for i := range n {
		t, err := d.TrackType(i)
		if err != nil {
			return fmt.Errorf("%w: track %v type: %w", ErrDemux, i, err)
		}
		if t == demux.TrackVideo {
			r.track = i
			break
		}
	}
	if r.track < 0 {
		return ErrNoVideoTrack
	}

	fourcc, err := d.TrackCodec(r.track)
	if err != nil {
		if errors.Is(err, codec.ErrUnsupportedCodec) {
			return err
		}
		return fmt.Errorf("%w: track %v codec: %w", ErrDemux, r.track, err)
	}
	width, height, err := d.VideoParams(r.track)
	if err != nil {
		return fmt.Errorf("%w: track %v video params: %w", ErrDemux, r.track, err)
	}
	r.desc = codec.MediaDescriptor{
		Fourcc: fourcc,
		Width:  width,
		Height: height,
	}
	return nil
}

// readIVFHeader consumes the IVF file header if the stream has one. Streams
// without it start directly with the first frame header.
func (r *Reader) readIVFHeader() error {
	magic := make([]byte, len(ivfSignature))
	n, err := io.ReadFull(r.src, magic)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("read input: %w", err)
	}
	if _, err := r.src.Seek(0, bytesource.Start); err != nil {
		return fmt.Errorf("rewind input: %w", err)
	}
	if n < len(magic) || string(magic) != ivfSignature {
		return nil
	}

	_, hdr, err := ivfreader.NewWith(r.src)
	if err != nil {
		return fmt.Errorf("%w: IVF header: %w", ErrUnrecognizedContainer, err)
	}
	fourcc, err := codec.ParseFourcc(hdr.FourCC)
	if err != nil {
		return fmt.Errorf("%w: IVF header: %w", ErrUnrecognizedContainer, err)
	}
	r.desc = codec.MediaDescriptor{
		Fourcc:      fourcc,
		Width:       int(hdr.Width),
		Height:      int(hdr.Height),
		TimebaseNum: int(hdr.TimebaseNumerator),
		TimebaseDen: int(hdr.TimebaseDenominator),
	}
	if _, err := r.src.Seek(ivfFileHeaderSize, bytesource.Start); err != nil {
		return fmt.Errorf("seek past IVF header: %w", err)
	}
	return nil
}

func (r *Reader) Kind() Kind {
	return r.kind
}

func (r *Reader) Descriptor() codec.MediaDescriptor {
	return r.desc
}

// NextAccessUnit returns the next access unit of the video track. The unit
// is reused by the following call. It returns io.EOF at the end of the
// stream.
func (r *Reader) NextAccessUnit() (*AccessUnit, error) {
	if r.closed {
		return nil, fmt.Errorf("reader is closed")
	}
	if r.kind == Chunked {
		return r.nextChunk()
	}
	return r.nextFramed()
}

func (r *Reader) nextFramed() (*AccessUnit, error) {
	hdr := r.hdr[:r.kind.frameHeaderSize()]
	n, err := io.ReadFull(r.src, hdr)
	switch {
	case err == io.EOF:
		return nil, io.EOF
	case err == io.ErrUnexpectedEOF:
		return nil, fmt.Errorf("%w: got %v of %v header bytes", ErrFraming, n, len(hdr))
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrFraming, err)
	}

	size := int(binary.LittleEndian.Uint32(hdr))
	if size > MaxUnitSize {
		r.logger.Warn("read invalid frame size", "size", size, "limit", MaxUnitSize)
		size = 0
	}
	if r.kind == Raw && size > rawSuspectSize {
		r.logger.Warn("read invalid frame size, not a raw file?", "size", size)
	}

	buf, err := r.unit.resize(size)
	if err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r.src, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: want %v bytes", ErrTruncatedUnit, size)
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return &r.unit, nil
}

func (r *Reader) nextChunk() (*AccessUnit, error) {
	for !r.cursor.Remaining() {
		r.cursor.release()

		p, err := r.demuxer.ReadPacket()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read packet: %w", ErrDemux, err)
		}
		track, err := p.Track()
		if err != nil {
			p.Release()
			return nil, fmt.Errorf("%w: packet track: %w", ErrDemux, err)
		}
		if track != r.track {
			p.Release()
			continue
		}
		count, err := p.Count()
		if err != nil {
			p.Release()
			return nil, fmt.Errorf("%w: packet chunk count: %w", ErrDemux, err)
		}
		r.cursor.reset(p, count)
	}

	data, err := r.cursor.packet.Data(r.cursor.index)
	if err != nil {
		return nil, fmt.Errorf("%w: chunk %v: %w", ErrDemux, r.cursor.index, err)
	}
	r.cursor.index++
	r.unit.borrow(data)
	return &r.unit, nil
}

// Close releases the held packet, the demuxer and the input, in that order.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	r.cursor.release()
	if r.demuxer != nil {
		errs = append(errs, r.demuxer.Close())
	}
	if r.closer != nil {
		errs = append(errs, r.closer.Close())
	}
	return errors.Join(errs...)
}
