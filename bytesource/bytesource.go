// Package bytesource provides sequential, seekable access to the bytes of a
// media file.
package bytesource

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
)

type Origin int

const (
	Start Origin = iota
	Current
	End
)

func (o Origin) whence() int {
	switch o {
	case Current:
		return io.SeekCurrent
	case End:
		return io.SeekEnd
	default:
		return io.SeekStart
	}
}

// Source is the capability demuxers need from the underlying input.
type Source interface {
	Read(p []byte) (int, error)
	Seek(offset int64, origin Origin) (int64, error)
	Tell() (int64, error)
}

type diagnostics interface {
	Logger() *slog.Logger
}

// Logger returns the diagnostic sink of src, or the default logger if src
// does not carry one.
func Logger(src Source) *slog.Logger {
	if d, ok := src.(diagnostics); ok && d.Logger() != nil {
		return d.Logger()
	}
	return slog.Default()
}

type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger injects the diagnostic sink used by consumers of the source.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// File is a Source backed by an open file. It owns the file handle.
type File struct {
	file   *os.File
	logger *slog.Logger
	closed bool
}

func Open(name string, opts ...Option) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	return &File{
		file:   f,
		logger: o.logger.With("file", name),
	}, nil
}

func (f *File) Name() string {
	return f.file.Name()
}

func (f *File) Read(p []byte) (int, error) {
	return f.file.Read(p)
}

func (f *File) Seek(offset int64, origin Origin) (int64, error) {
	return f.file.Seek(offset, origin.whence())
}

func (f *File) Tell() (int64, error) {
	return f.file.Seek(0, io.SeekCurrent)
}

func (f *File) Logger() *slog.Logger {
	return f.logger
}

// Close releases the file handle. Calls after the first are no-ops.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if err := f.file.Close(); err != nil {
		return fmt.Errorf("close %v: %w", f.file.Name(), err)
	}
	return nil
}

// Memory is a Source over an in-memory buffer.
type Memory struct {
	r      *bytes.Reader
	logger *slog.Logger
}

func NewMemory(b []byte, opts ...Option) *Memory {
	o := newOptions(opts)
	return &Memory{
		r:      bytes.NewReader(b),
		logger: o.logger,
	}
}

func (m *Memory) Read(p []byte) (int, error) {
	return m.r.Read(p)
}

func (m *Memory) Seek(offset int64, origin Origin) (int64, error) {
	return m.r.Seek(offset, origin.whence())
}

func (m *Memory) Tell() (int64, error) {
	return m.r.Seek(0, io.SeekCurrent)
}

func (m *Memory) Logger() *slog.Logger {
	return m.logger
}
