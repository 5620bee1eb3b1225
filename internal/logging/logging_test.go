package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewDisabled(t *testing.T) {
	log, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if log.Core().Enabled(zap.ErrorLevel) {
		t.Fatal("empty level must give a no-op logger")
	}
}

func TestNewBadLevel(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestConsoleLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "info", Console: &buf})
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("hidden")
	log.Info("parsed", zap.String("path", "a.fl"), zap.Int("nodes", 11))
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line leaked at info level: %q", out)
	}
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "parsed") || !strings.Contains(out, `"nodes": 11`) {
		t.Errorf("unexpected console output: %q", out)
	}
}

func TestFileSinkWritesJSON(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "debug"
	cfg.File = filepath.Join(t.TempDir(), "funlang.log")
	log, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("lexed", zap.Int("tokens", 42))
	_ = log.Sync()

	data, err := os.ReadFile(cfg.File)
	if err != nil {
		t.Fatal(err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if entry["msg"] != "lexed" || entry["level"] != "DEBUG" || entry["tokens"] != float64(42) {
		t.Errorf("entry = %v", entry)
	}
}
