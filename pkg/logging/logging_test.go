package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupJSON(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logger := SetupWriter(&buf, "info", "json")
	logger.Debug("hidden")
	logger.Info("Mutation recorded", "op", "add-contributor")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["op"] != "add-contributor" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestSetupText(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	SetupWriter(&buf, "error", "text").Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("LOG_LEVEL should override the configured level: %q", buf.String())
	}
}
