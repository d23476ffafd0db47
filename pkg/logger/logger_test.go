package logger_test

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-updates/pkg/logger"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logger.New("", "test", "loud")
	assert.Error(t, err)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := logger.New(path, "test", "info")
	require.NoError(t, err)

	l.Info().Str("city", "Kyiv").Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"city":"Kyiv"`)
	assert.Contains(t, string(data), `"service":"test"`)
}

func TestNewFileLogger_AppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "audit.jsonl")

	l, err := logger.NewFileLogger(path)
	require.NoError(t, err)

	l.Info("first")
	l.Info("second")
	require.NoError(t, l.Sync())

	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	var msgs []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		assert.Contains(t, line, "timestamp")
		msgs = append(msgs, line["msg"].(string))
	}
	assert.Equal(t, []string{"first", "second"}, msgs)
}
