package flags

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterInto(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	RegisterInto(fs, FileFlag, MaxFPSFlag)

	require.NoError(t, fs.Parse([]string{"-file", "clip.webm", "-max-fps", "12.5"}))
	assert.Equal(t, "clip.webm", File)
	assert.Equal(t, 12.5, MaxFPS)
	assert.Nil(t, fs.Lookup(string(KindFlag)))
}

func TestRegisterAll(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterInto(fs)
	for name := range flags {
		assert.NotNil(t, fs.Lookup(string(name)), name)
	}
}

func TestRegisterUnknownPanics(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	assert.Panics(t, func() { RegisterInto(fs, "unknown") })
}
