// Package session appends structured records of tool invocations and their
// outcomes to an on-disk log, so a run can be reconstructed after the fact.
package session

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record captures one external invocation and its outcome.
type Record struct {
	ID         string
	Operation  string
	Command    string
	OutputPath string
	ExitCode   int
	Duration   time.Duration
	Err        error
}

// Logger appends JSON-lines records to a session log file. A nil *Logger is
// valid and discards everything, so callers never need to branch.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	log  *slog.Logger
}

// Open creates (or appends to) the session log at path.
func Open(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Logger{
		file: f,
		log:  slog.New(slog.NewJSONHandler(f, nil)),
	}, nil
}

// Append writes one record. Failures are swallowed: logging must never break
// the operation it describes.
func (l *Logger) Append(rec Record) {
	if l == nil {
		return
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	attrs := []slog.Attr{
		slog.String("id", rec.ID),
		slog.String("operation", rec.Operation),
		slog.String("command", rec.Command),
		slog.String("output", rec.OutputPath),
		slog.Int("exit_code", rec.ExitCode),
		slog.Duration("duration", rec.Duration),
	}
	level := slog.LevelInfo
	msg := "invocation completed"
	if rec.Err != nil {
		level = slog.LevelError
		msg = "invocation failed"
		attrs = append(attrs, slog.String("error", rec.Err.Error()))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.log.LogAttrs(context.Background(), level, msg, attrs...)
}

// Close releases the underlying file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
