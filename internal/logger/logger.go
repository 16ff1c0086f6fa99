// Package logger wraps charmbracelet/log with the events of the mddoc
// command.
package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Prefix is prepended to every log line.
const Prefix = "mddoc"

// Logger wraps charm/log for structured logging.
type Logger struct {
	*log.Logger
}

// New creates a logger writing to w at the given level.
func New(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          Prefix,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	return New(io.Discard, log.FatalLevel)
}

// ParseLevel maps a config level name to a log level. Empty means info.
func ParseLevel(name string) (log.Level, error) {
	if name == "" {
		return log.InfoLevel, nil
	}
	switch strings.ToLower(name) {
	case "debug", "info", "warn", "error":
		return log.ParseLevel(strings.ToLower(name))
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q", name)
}

// FileFormatted logs a file whose formatting changed.
func (l *Logger) FileFormatted(path string, written bool) {
	l.Info("file formatted",
		"file", path,
		"written", written)
}

// FileRendered logs an HTML preview written to output.
func (l *Logger) FileRendered(input, output string) {
	l.Info("preview written",
		"file", input,
		"output", output)
}

// FileUnchanged logs a file already in canonical form.
func (l *Logger) FileUnchanged(path string) {
	l.Debug("file unchanged",
		"file", path)
}

// FileUnstable logs a file whose second formatting pass differs from the
// first.
func (l *Logger) FileUnstable(path string, firstLen, secondLen int) {
	l.Warn("file unstable",
		"file", path,
		"first_bytes", firstLen,
		"second_bytes", secondLen)
}

// FileFailed logs an error for a specific file.
func (l *Logger) FileFailed(path string, err error) {
	l.Error("file failed",
		"file", path,
		"error", err)
}

// ConfigLoaded logs successful config loading.
func (l *Logger) ConfigLoaded(path string, workers int) {
	l.Debug("config loaded",
		"config", path,
		"workers", workers)
}

// BatchSummary logs the outcome of a batch run.
func (l *Logger) BatchSummary(command string, total, changed, failed int, duration time.Duration) {
	l.Info("batch completed",
		"command", command,
		"files", total,
		"changed", changed,
		"failed", failed,
		"duration", duration.Round(time.Millisecond))
}
