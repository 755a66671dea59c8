package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerInitialized(t *testing.T) {
	logger := GetLogger()
	require.NotNil(t, logger, "Logger should be initialized")
}

func TestInitLoggerLevelsAndFormats(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"debug text", "debug", "text"},
		{"info json", "info", "json"},
		{"warn alias", "warning", "text"},
		{"error uppercase", "ERROR", "JSON"},
		{"unknown level falls back", "loud", "text"},
		{"unknown format falls back", "info", "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitLogger(tt.level, tt.format)
			require.NotNil(t, GetLogger())
		})
	}
}

func TestGetLoggerReturnsSameInstance(t *testing.T) {
	InitLogger("info", "text")
	require.Equal(t, GetLogger(), GetLogger())
}
