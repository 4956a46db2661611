package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewAcceptsAllLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "bogus"} {
		var buf bytes.Buffer
		if New(level, &buf) == nil {
			t.Errorf("expected logger for level %q", level)
		}
	}
}

func TestNewTextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewText("info", &buf)

	logger.Info("sweep finished", "grid_points", 100)
	output := buf.String()
	if !strings.Contains(output, "sweep finished") {
		t.Errorf("expected output to contain the message, got: %s", output)
	}
	if !strings.Contains(output, "grid_points") {
		t.Errorf("expected output to contain the attribute key, got: %s", output)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(New("info", &buf))

	Debug("hidden message")
	if strings.Contains(buf.String(), "hidden message") {
		t.Errorf("debug message should be filtered at info level, got: %s", buf.String())
	}

	Info("visible message")
	if !strings.Contains(buf.String(), "visible message") {
		t.Errorf("info message should pass at info level, got: %s", buf.String())
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(New("info", &buf))

	Info("search accepted", "id", "abc", "n1", 50)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON log output: %v", err)
	}
	if entry["msg"] != "search accepted" {
		t.Errorf("expected msg 'search accepted', got %v", entry["msg"])
	}
	if entry["n1"] != float64(50) {
		t.Errorf("expected n1 50, got %v", entry["n1"])
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(New("info", &buf))

	With("search_id", "xyz").Info("running")
	if !strings.Contains(buf.String(), "search_id") {
		t.Errorf("expected output to carry the bound attribute, got: %s", buf.String())
	}
}
