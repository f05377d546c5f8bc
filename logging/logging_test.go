package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, JSONFormat, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	New(JSONFormat, slog.LevelInfo, &buf).Warn("frames corrupted", "corrupted", 2)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "frames corrupted", line["msg"])
	assert.Equal(t, float64(2), line["corrupted"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(TextFormat, slog.LevelWarn, &buf)
	l.Info("hidden")
	assert.Zero(t, buf.Len())
	l.Warn("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestUnknownFormatPanics(t *testing.T) {
	assert.Panics(t, func() { New("xml", slog.LevelInfo, nil) })
}
