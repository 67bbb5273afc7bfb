package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stonearc/pinbridge/internal/infrastructure/config"
)

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LoggingConfig
	}{
		{
			name: "json to stdout",
			cfg:  config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
		},
		{
			name: "text to stderr",
			cfg:  config.LoggingConfig{Level: "debug", Format: "text", Output: "stderr"},
		},
		{
			name: "unknown format falls back to json",
			cfg:  config.LoggingConfig{Level: "info", Format: "yaml", Output: "stdout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if logger := New(tt.cfg, "1.0.0"); logger == nil {
				t.Fatal("expected non-nil logger")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLogger_With(t *testing.T) {
	logger := Default()
	child := logger.With("component", "runtime")

	if child == nil {
		t.Fatal("expected non-nil child logger")
	}
	if child == logger {
		t.Error("expected child logger to be different from parent")
	}
}

func TestLogger_OutputContainsDefaultFields(t *testing.T) {
	var buf bytes.Buffer

	baseHandler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	handler := baseHandler.WithAttrs([]slog.Attr{
		slog.String("service", "pinbridge"),
		slog.String("version", "test"),
	})

	logger := &Logger{Logger: slog.New(handler)}
	logger.Info("test message", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "pinbridge") {
		t.Error("expected output to contain service field")
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	if entry["msg"] != "test message" {
		t.Errorf("expected msg='test message', got %v", entry["msg"])
	}
	if entry["key"] != "value" {
		t.Errorf("expected key='value', got %v", entry["key"])
	}
}
