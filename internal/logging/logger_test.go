package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: slog.LevelInfo, JSON: true, Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info("backup created", KeyBackupID, int64(42), KeyStatus, "persisted")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "backup created", record["msg"])
	assert.Equal(t, float64(42), record[KeyBackupID])
	assert.Equal(t, "persisted", record[KeyStatus])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: slog.LevelWarn, Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info("dropped")
	DebugLog("dropped too")
	Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestDebugFlag(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{Level: slog.LevelDebug, Output: &buf})
	assert.True(t, Debug)

	Init(Config{Level: slog.LevelInfo, Output: &buf})
	assert.False(t, Debug)

	t.Cleanup(func() { Init(DefaultConfig()) })
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: slog.LevelInfo, Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	With(KeySource, "abc").Info("peer mutation")
	assert.Contains(t, buf.String(), "source=abc")
}
