package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: DebugLevel, JSONOutput: true, Output: &buf})

	logger := WithComponent("linker")
	logger.Info().Str("sample_code", "A 1404 10 14 K1").Msg("Sample linked")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "linker", entry["component"])
	assert.Equal(t, "A 1404 10 14 K1", entry["sample_code"])
	assert.Equal(t, "Sample linked", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestInit_Level(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: WarnLevel, JSONOutput: true, Output: &buf})
	defer Init(Config{Level: InfoLevel, JSONOutput: true, Output: &bytes.Buffer{}})

	Logger.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	Logger.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestChildLoggers(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: InfoLevel, JSONOutput: true, Output: &buf})

	sheetLogger := WithSheet("Solids")
	sheetLogger.Info().Msg("a")
	notifyLogger := WithNotifier("telegram")
	notifyLogger.Info().Msg("b")

	out := buf.String()
	assert.Contains(t, out, `"sheet":"Solids"`)
	assert.Contains(t, out, `"notifier":"telegram"`)
	assert.Contains(t, out, `"component":"notify"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"info", InfoLevel},
		{"verbose", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}
