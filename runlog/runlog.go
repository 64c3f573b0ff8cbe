// Package runlog manages per-run log files and the YAML run record the
// tool leaves next to them.
package runlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"osdstamp/sysinfo"
)

// Log holds the open log file and the slog logger writing to it.
type Log struct {
	Logger *slog.Logger
	dir    string
	file   *os.File
}

// Open creates dir if absent and opens a timestamped log file in it. The
// returned logger tees every record to the file and stderr.
func Open(dir string, level slog.Level) (*Log, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", dir, err)
	}

	name := fmt.Sprintf("osdstamp-%s.log", time.Now().Format("20060102-150405"))
	file, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	handler := slog.NewTextHandler(io.MultiWriter(os.Stderr, file), &slog.HandlerOptions{Level: level})
	return &Log{
		Logger: slog.New(handler),
		dir:    dir,
		file:   file,
	}, nil
}

// Dir returns the log directory.
func (l *Log) Dir() string { return l.dir }

// Close flushes and closes the log file.
func (l *Log) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// SyncOutcome summarizes the optional pre-capture synchronization.
type SyncOutcome struct {
	Attempted bool   `yaml:"attempted"`
	Success   bool   `yaml:"success"`
	Server    string `yaml:"server,omitempty"`
	Offset    string `yaml:"offset,omitempty"`
	Error     string `yaml:"error,omitempty"`
}

// Record is the run summary written once per invocation.
type Record struct {
	RunID     string             `yaml:"run_id"`
	Mode      string             `yaml:"mode"`
	Timestamp time.Time          `yaml:"timestamp"`
	Host      sysinfo.SystemInfo `yaml:"host"`
	Sync      SyncOutcome        `yaml:"sync"`
	Variables map[string]string  `yaml:"variables"`
}

// NewRecord starts a record for the given transition mode.
func NewRecord(mode string, host sysinfo.SystemInfo) *Record {
	return &Record{
		RunID:     uuid.NewString(),
		Mode:      mode,
		Timestamp: time.Now(),
		Host:      host,
		Variables: map[string]string{},
	}
}

// Write appends the record as a YAML document to the run record file in dir.
func (r *Record) Write(dir string) (string, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal run record: %w", err)
	}

	path := filepath.Join(dir, "osdstamp-runs.yaml")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("open run record %s: %w", path, err)
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "---\n%s", data); err != nil {
		return "", fmt.Errorf("append run record: %w", err)
	}
	return path, nil
}
