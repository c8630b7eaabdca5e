package utils

import (
	"strings"
	"sync"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		name string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"bogus", LogLevelInfo},
		{"", LogLevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLogLevel(tc.name); got != tc.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	logger := NewLogger("test")

	var mu sync.Mutex
	var messages []string
	logger.SetCallback(func(level LogLevel, message string) {
		mu.Lock()
		messages = append(messages, message)
		mu.Unlock()
	})

	logger.SetLevel(LogLevelWarn)
	logger.Debug("dropped debug")
	logger.Info("dropped info")
	logger.Warn("kept warn")
	logger.Error("kept error")

	mu.Lock()
	defer mu.Unlock()
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}
	if !strings.Contains(messages[0], "kept warn") || !strings.Contains(messages[0], "[WARN]") {
		t.Errorf("First message wrong: %s", messages[0])
	}
	if !strings.Contains(messages[1], "kept error") || !strings.Contains(messages[1], "[ERROR]") {
		t.Errorf("Second message wrong: %s", messages[1])
	}
}

func TestLoggerPrefixAndFormat(t *testing.T) {
	logger := NewLogger("signaling")

	var got string
	logger.SetCallback(func(level LogLevel, message string) {
		got = message
	})
	logger.Info("peer %s joined", "peer-1")

	if !strings.Contains(got, "[signaling]") {
		t.Errorf("Message missing prefix: %s", got)
	}
	if !strings.Contains(got, "peer peer-1 joined") {
		t.Errorf("Message missing formatted body: %s", got)
	}
}
