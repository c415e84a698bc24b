package clog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger writes leveled messages to an optional file and to the console.
type Logger struct {
	mu           sync.Mutex
	level        Level     // minimum level logged anywhere
	consoleLevel Level     // minimum level written to the console
	file         io.Writer // full timestamped log, nil when disabled
	console      io.Writer // short form, nil when disabled
}

// NewLogger returns a logger at Info level that writes warnings and errors
// to stderr and has no file output.
func NewLogger() *Logger {
	return &Logger{
		level:        LevelInfo,
		consoleLevel: LevelWarn,
		console:      os.Stderr,
	}
}

// SetLevel sets the minimum level for all outputs.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetConsoleLevel sets the minimum level written to the console.
func (l *Logger) SetConsoleLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.consoleLevel = level
}

// SetFileOutput sets the file writer. Pass nil to disable file logging.
func (l *Logger) SetFileOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.file = w
}

// SetErrOutput sets the console writer. Pass nil to disable it.
func (l *Logger) SetErrOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = w
}

func (l *Logger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, format, args...) }

func (l *Logger) log(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if l.file != nil {
		ts := time.Now().UTC().Format(time.RFC3339)
		_, _ = fmt.Fprintf(l.file, "%s [%s] %s\n", ts, level, msg)
	}
	if l.console != nil && level >= l.consoleLevel {
		_, _ = fmt.Fprintf(l.console, "[%s] %s\n", level, msg)
	}
}

// OpenLogFile opens path for appending, creating parent directories.
func OpenLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
