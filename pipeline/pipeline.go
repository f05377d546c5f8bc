// Package pipeline decodes the video track of one input file and converts
// decoded pictures to RGB.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/qkepia/muhpixels/codec"
	"github.com/qkepia/muhpixels/colorconv"
	"github.com/qkepia/muhpixels/container"
)

var ErrNoDecoder = errors.New("no decoder configured")

type Option func(*Pipeline) error

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		p.logger = logger
		return nil
	}
}

// WithDecoder sets the function that opens the decoder for the stream
// descriptor reported by the container.
func WithDecoder(open codec.Opener) Option {
	return func(p *Pipeline) error {
		p.openDecoder = open
		return nil
	}
}

// WithContainerOptions passes options to the container reader opened by
// Open and Decode.
func WithContainerOptions(opts ...container.Option) Option {
	return func(p *Pipeline) error {
		p.containerOpts = append(p.containerOpts, opts...)
		return nil
	}
}

// ConvertAll converts every decoded frame instead of only the first one.
func ConvertAll() Option {
	return func(p *Pipeline) error {
		p.convertAll = true
		return nil
	}
}

func WithSink(s Sink) Option {
	return func(p *Pipeline) error {
		p.sinks = append(p.sinks, s)
		return nil
	}
}

// Stats counts what a pipeline has processed so far.
type Stats struct {
	// UnitsIn is the number of access units submitted to the decoder.
	UnitsIn int
	// Frames is the number of images the decoder produced.
	Frames int
	// Corrupted is the number of submitted units after which the decoder
	// reported a corrupted frame.
	Corrupted int
}

// Result is the outcome of a completed run.
type Result struct {
	Kind       container.Kind
	Descriptor codec.MediaDescriptor
	Stats      Stats
	// Frame is the last converted frame, nil if nothing was decoded.
	Frame *colorconv.RGBFrame
}

// Pipeline owns a container reader and a decoder and moves access units
// from one to the other.
type Pipeline struct {
	logger        *slog.Logger
	openDecoder   codec.Opener
	containerOpts []container.Option
	convertAll    bool
	sinks         []Sink

	reader  *container.Reader
	decoder codec.Decoder

	frame     colorconv.RGBFrame
	converted bool
	stats     Stats
	done      bool
	closed    bool
}

func newPipeline(opts []Option) (*Pipeline, error) {
	p := &Pipeline{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	if p.openDecoder == nil {
		return nil, ErrNoDecoder
	}
	return p, nil
}

// Open opens the file at path and a decoder for its video track.
func Open(path string, opts ...Option) (*Pipeline, error) {
	p, err := newPipeline(opts)
	if err != nil {
		return nil, err
	}
	copts := append([]container.Option{container.WithLogger(p.logger)}, p.containerOpts...)
	r, err := container.Open(path, copts...)
	if err != nil {
		return nil, err
	}
	if err := p.init(r); err != nil {
		return nil, errors.Join(err, r.Close())
	}
	return p, nil
}

// New creates a pipeline reading from r. The pipeline takes ownership of r
// if it returns without error.
func New(r *container.Reader, opts ...Option) (*Pipeline, error) {
	p, err := newPipeline(opts)
	if err != nil {
		return nil, err
	}
	if err := p.init(r); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) init(r *container.Reader) error {
	d, err := p.openDecoder(r.Descriptor())
	if err != nil {
		return fmt.Errorf("open decoder: %w", err)
	}
	p.reader = r
	p.decoder = d
	p.logger.Debug("pipeline ready",
		"kind", r.Kind(),
		"codec", r.Descriptor().Fourcc,
		"width", r.Descriptor().Width,
		"height", r.Descriptor().Height,
	)
	return nil
}

func (p *Pipeline) AddSink(s Sink) {
	p.sinks = append(p.sinks, s)
}

func (p *Pipeline) Kind() container.Kind {
	return p.reader.Kind()
}

func (p *Pipeline) Descriptor() codec.MediaDescriptor {
	return p.reader.Descriptor()
}

func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Frame returns the last converted frame or nil.
func (p *Pipeline) Frame() *colorconv.RGBFrame {
	if !p.converted {
		return nil
	}
	return &p.frame
}

// Step submits the next access unit to the decoder and hands every image it
// produces to the sinks. It returns io.EOF once the input is exhausted.
func (p *Pipeline) Step() error {
	if p.closed {
		return fmt.Errorf("pipeline is closed")
	}
	if p.done {
		return io.EOF
	}
	unit, err := p.reader.NextAccessUnit()
	if err == io.EOF {
		p.done = true
		p.report()
		return io.EOF
	}
	if err != nil {
		return err
	}

	p.stats.UnitsIn++
	if err := p.decoder.Decode(unit.Bytes()); err != nil {
		return fmt.Errorf("decode unit %v: %w", p.stats.UnitsIn-1, err)
	}
	for {
		img, ok := p.decoder.NextImage()
		if !ok {
			break
		}
		if err := p.emit(img); err != nil {
			return err
		}
	}
	corrupted, err := p.decoder.Corrupted()
	if err != nil {
		return fmt.Errorf("query corruption: %w", err)
	}
	if corrupted {
		p.stats.Corrupted++
		p.logger.Debug("decoder reported corrupted frame", "unit", p.stats.UnitsIn-1)
	}
	return nil
}

func (p *Pipeline) emit(img *codec.Image) error {
	frame := Frame{
		Index: p.stats.Frames,
		Image: img,
	}
	p.stats.Frames++
	if p.convertAll || !p.converted {
		if err := colorconv.Convert(&p.frame, img); err != nil {
			return fmt.Errorf("convert frame %v: %w", frame.Index, err)
		}
		p.converted = true
		frame.RGB = &p.frame
	}
	for _, s := range p.sinks {
		if err := s.WriteFrame(frame); err != nil {
			return fmt.Errorf("sink frame %v: %w", frame.Index, err)
		}
	}
	return nil
}

func (p *Pipeline) report() {
	p.logger.Info("decoding finished",
		"units", p.stats.UnitsIn,
		"frames", p.stats.Frames,
	)
	if p.stats.Corrupted > 0 {
		p.logger.Warn("frames corrupted",
			"frames", p.stats.Frames,
			"corrupted", p.stats.Corrupted,
		)
	}
}

// Run steps until the end of the input.
func (p *Pipeline) Run() (*Result, error) {
	for {
		err := p.Step()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return &Result{
		Kind:       p.Kind(),
		Descriptor: p.Descriptor(),
		Stats:      p.stats,
		Frame:      p.Frame(),
	}, nil
}

// Close tears down the decoder, then the reader.
func (p *Pipeline) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return errors.Join(p.decoder.Close(), p.reader.Close())
}

// Decode runs a pipeline over the file at path to completion.
func Decode(path string, opts ...Option) (res *Result, err error) {
	p, err := Open(path, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, p.Close())
		if err != nil {
			res = nil
		}
	}()
	return p.Run()
}
