package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestSetupWriterFormats(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	SetupWriter(&buf, "info", "", "production").Info("Report generated", "rooms", 2)
	assert.Contains(t, buf.String(), `"msg":"Report generated"`)
	assert.Contains(t, buf.String(), `"rooms":2`)

	buf.Reset()
	SetupWriter(&buf, "info", "", "development").Info("Report generated", "rooms", 2)
	assert.Contains(t, buf.String(), "msg=\"Report generated\"")
	assert.Contains(t, buf.String(), "rooms=2")

	buf.Reset()
	SetupWriter(&buf, "warn", "text", "production").Info("hidden")
	assert.Empty(t, buf.String())
}
