package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConsoleLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, ConsoleLevel(false))
	assert.Equal(t, zapcore.DebugLevel, ConsoleLevel(true))
}

func TestNew(t *testing.T) {
	t.Run("quiet console hides debug output", func(t *testing.T) {
		var console bytes.Buffer
		log, closeFn, err := New(Options{Console: &console})
		require.NoError(t, err)

		log.Debugw("hidden detail")
		log.Warnw("visible warning")
		require.NoError(t, closeFn())

		assert.NotContains(t, console.String(), "hidden detail")
		assert.Contains(t, console.String(), "visible warning")
	})

	t.Run("verbose console shows debug output", func(t *testing.T) {
		var console bytes.Buffer
		log, closeFn, err := New(Options{Console: &console, Verbose: true})
		require.NoError(t, err)

		log.Debugw("parameter ignored", "key", "foo")
		require.NoError(t, closeFn())

		assert.Contains(t, console.String(), "parameter ignored")
		assert.Contains(t, console.String(), "foo")
	})

	t.Run("logfile receives JSON entries with run id", func(t *testing.T) {
		var console bytes.Buffer
		path := filepath.Join(t.TempDir(), "ceka.log")

		log, closeFn, err := New(Options{Console: &console, LogFile: path, RunID: "run-1"})
		require.NoError(t, err)

		log.Debugw("loaded dataset", "rows", 14)
		require.NoError(t, closeFn())

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		require.Len(t, lines, 1)

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
		assert.Equal(t, "loaded dataset", entry["msg"])
		assert.Equal(t, "run-1", entry["run"])
		assert.Equal(t, float64(14), entry["rows"])

		// Debug goes to the file even when the console is quiet
		assert.NotContains(t, console.String(), "loaded dataset")
	})

	t.Run("unwritable logfile fails", func(t *testing.T) {
		_, _, err := New(Options{LogFile: filepath.Join(t.TempDir(), "missing", "ceka.log")})
		assert.Error(t, err)
	})
}

func TestInitialize(t *testing.T) {
	previous := Logger
	defer func() { Logger = previous }()

	var console bytes.Buffer
	closeFn, err := Initialize(Options{Console: &console})
	require.NoError(t, err)
	require.NotNil(t, Logger)

	Logger.Errorw("boom")
	require.NoError(t, closeFn())
	assert.Contains(t, console.String(), "boom")
}
