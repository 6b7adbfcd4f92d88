package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAppendAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "session.log")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer l.Close()

	l.Append(Record{
		Operation:  "trim",
		Command:    "ffmpeg -y -ss 00:00:05.000 -i in.mkv -t 00:01:00.000 -map 0 -c copy out.mkv",
		OutputPath: "out.mkv",
		ExitCode:   0,
		Duration:   2 * time.Second,
	})
	l.Append(Record{
		Operation: "join",
		Command:   "ffmpeg -y -f concat ...",
		ExitCode:  1,
		Err:       errors.New("command failed (exit 1)"),
	})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("log lines = %d, want 2", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first line is not JSON: %v", err)
	}
	if first["operation"] != "trim" || first["level"] != "INFO" {
		t.Errorf("first record = %v", first)
	}
	if first["id"] == "" {
		t.Error("record id should be generated when empty")
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("second line is not JSON: %v", err)
	}
	if second["level"] != "ERROR" || second["error"] == "" {
		t.Errorf("second record = %v", second)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Append(Record{Operation: "inspect"})
	if err := l.Close(); err != nil {
		t.Errorf("Close() on nil = %v", err)
	}
}
