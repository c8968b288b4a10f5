package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestStandardLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStandardLogger(WithOutput(&buf), WithLevel(LevelDebug))

	tests := []struct {
		log   func(string, ...interface{})
		level string
	}{
		{logger.Debug, "[DEBUG]"},
		{logger.Info, "[INFO]"},
		{logger.Warn, "[WARN]"},
		{logger.Error, "[ERROR]"},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.log("acquired %d bytes", 4)
		out := buf.String()
		if !strings.Contains(out, tt.level) || !strings.Contains(out, "acquired 4 bytes") {
			t.Errorf("Expected %s entry, got: %s", tt.level, out)
		}
	}
}

func TestFieldsAreSortedAndInherited(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStandardLogger(WithOutput(&buf), WithComponent("buffer"))

	child := logger.WithFields(map[string]interface{}{
		"writable": false,
		"size":     4,
	})
	child.Info("view acquired")

	out := buf.String()
	if !strings.Contains(out, "component=buffer size=4 writable=false view acquired") {
		t.Errorf("Unexpected field layout: %s", out)
	}

	buf.Reset()
	logger.Info("parent")
	if strings.Contains(buf.String(), "size=") {
		t.Errorf("Child fields leaked into parent: %s", buf.String())
	}
}

func TestChildSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStandardLogger(WithOutput(&buf))
	child := logger.WithField("op", "acquire")

	logger.SetLevel(LevelError)
	child.Warn("should not appear")
	if buf.Len() != 0 {
		t.Errorf("Expected warn to be filtered, got: %s", buf.String())
	}
	if child.GetLevel() != LevelError {
		t.Errorf("Expected child level ERROR, got %s", child.GetLevel())
	}
}

func TestFatalCallsExit(t *testing.T) {
	var buf bytes.Buffer
	code := -1
	logger := NewStandardLogger(WithOutput(&buf))
	logger.exit = func(c int) { code = c }

	logger.Fatal("boom")
	if code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "[FATAL] boom") {
		t.Errorf("Expected fatal entry, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		"warning": LevelWarn,
		"Error":   LevelError,
		"fatal":   LevelFatal,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestDefaultLogger(t *testing.T) {
	original := GetDefaultLogger()
	defer SetDefaultLogger(original)

	var buf bytes.Buffer
	SetDefaultLogger(NewStandardLogger(WithOutput(&buf)))

	WithField("key", "k1").Info("stored")
	Debug("hidden")
	if !strings.Contains(buf.String(), "key=k1 stored") || strings.Contains(buf.String(), "hidden") {
		t.Errorf("Unexpected default logger output: %s", buf.String())
	}
}

func TestLevelString(t *testing.T) {
	if Level(42).String() != "LEVEL(42)" {
		t.Errorf("Unexpected unknown level string: %s", Level(42).String())
	}
}
