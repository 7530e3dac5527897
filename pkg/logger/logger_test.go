package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewHandler(t *testing.T) {
	// JSON output.
	buf := &bytes.Buffer{}
	log := slog.New(NewHandler(buf, "info", false))
	log.Info("user resolved", "provider", "github")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record), "Expected JSON log output")
	require.Equal(t, "user resolved", record["msg"])
	require.Equal(t, "github", record["provider"])

	// Pretty output.
	buf.Reset()
	log = slog.New(NewHandler(buf, "info", true))
	log.Info("user resolved")
	require.True(t, strings.Contains(buf.String(), "msg=\"user resolved\""), "Expected text log output")
}

func TestNewHandler_Level(t *testing.T) {
	for _, tc := range []struct {
		level        string
		debugEnabled bool
		infoEnabled  bool
	}{
		{level: "debug", debugEnabled: true, infoEnabled: true},
		{level: "INFO", debugEnabled: false, infoEnabled: true},
		{level: "warn", debugEnabled: false, infoEnabled: false},
		{level: "unknown", debugEnabled: false, infoEnabled: true},
	} {
		t.Run(tc.level, func(t *testing.T) {
			handler := NewHandler(&bytes.Buffer{}, tc.level, false)
			require.Equal(t, tc.debugEnabled, handler.Enabled(context.Background(), slog.LevelDebug))
			require.Equal(t, tc.infoEnabled, handler.Enabled(context.Background(), slog.LevelInfo))
		})
	}
}
