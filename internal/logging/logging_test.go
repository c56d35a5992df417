package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSplitsByLevel(t *testing.T) {
	var out, errs bytes.Buffer
	log := New(zapcore.InfoLevel, &out, &errs, true)
	log.Debug("dropped")
	log.Info("progress", zap.Int("files", 3))
	log.Error("broken", zap.String("path", "a.js"))
	require.NoError(t, log.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "progress", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, float64(3), entry["files"])

	entry = nil
	require.NoError(t, json.Unmarshal(errs.Bytes(), &entry))
	assert.Equal(t, "broken", entry["msg"])
	assert.Equal(t, "a.js", entry["path"])
	assert.NotContains(t, out.String(), "dropped")
}

func TestConsoleEncoding(t *testing.T) {
	var out bytes.Buffer
	log := New(Level(false), &out, &out, false)
	log.Info("quiet")
	log.Warn("loud")
	assert.NotContains(t, out.String(), "quiet")
	assert.Contains(t, out.String(), "WARN")
	assert.Contains(t, out.String(), "loud")
}

func TestLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, Level(true))
	assert.Equal(t, zapcore.WarnLevel, Level(false))
}
