package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

type Format string

const (
	TextFormat Format = "text"
	JSONFormat Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case TextFormat, JSONFormat:
		return f, nil
	}
	return "", fmt.Errorf("unknown logging format %q", s)
}

// New returns a logger writing in format to writer, stderr if writer is nil.
func New(format Format, level slog.Level, writer io.Writer) *slog.Logger {
	if writer == nil {
		writer = os.Stderr
	}
	ho := &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
	}
	switch format {
	case JSONFormat:
		return slog.New(slog.NewJSONHandler(writer, ho))
	case TextFormat:
		return slog.New(slog.NewTextHandler(writer, ho))
	default:
		panic(fmt.Sprintf("unexpected logging.format: %#v", format))
	}
}

// Configure sets the default logger.
func Configure(format Format, level slog.Level, writer io.Writer) {
	slog.SetDefault(New(format, level, writer))
}
