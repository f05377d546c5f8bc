package bytesource

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySeekTell(t *testing.T) {
	m := NewMemory([]byte("0123456789"))

	buf := make([]byte, 4)
	n, err := m.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	pos, err := m.Tell()
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)

	pos, err = m.Seek(-2, End)
	require.NoError(t, err)
	assert.Equal(t, int64(8), pos)

	pos, err = m.Seek(1, Current)
	require.NoError(t, err)
	assert.Equal(t, int64(9), pos)

	_, err = m.Seek(0, Start)
	require.NoError(t, err)
	rest, err := io.ReadAll(m)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(rest))
}

func TestFileCloseOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	f, err := Open(path)
	require.NoError(t, err)

	pos, err := f.Seek(0, End)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)

	pos, err = f.Tell()
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)

	assert.NoError(t, f.Close())
	assert.NoError(t, f.Close())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoggerFallsBackToDefault(t *testing.T) {
	assert.NotNil(t, Logger(NewMemory(nil)))
}
