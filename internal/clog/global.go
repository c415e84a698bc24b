package clog

import (
	"io"
	"log"
	"strings"
	"sync"
)

var (
	stdMu sync.RWMutex
	std   = NewLogger()
)

func global() *Logger {
	stdMu.RLock()
	defer stdMu.RUnlock()
	return std
}

// Options configures the global logger.
type Options struct {
	// FilePath enables file logging when non-empty.
	FilePath string
	// Debug lowers the logger level to LevelDebug.
	Debug bool
	// ConsoleLevel is the minimum level shown on stderr.
	ConsoleLevel Level
}

// Configure applies opts to the global logger.
func Configure(opts Options) error {
	l := global()
	if opts.Debug {
		l.SetLevel(LevelDebug)
	} else {
		l.SetLevel(LevelInfo)
	}
	l.SetConsoleLevel(opts.ConsoleLevel)

	if opts.FilePath != "" {
		f, err := OpenLogFile(opts.FilePath)
		if err != nil {
			return err
		}
		l.SetFileOutput(f)
	}
	return nil
}

func SetLevel(level Level)        { global().SetLevel(level) }
func SetConsoleLevel(level Level) { global().SetConsoleLevel(level) }
func SetFileOutput(w io.Writer)   { global().SetFileOutput(w) }
func SetErrOutput(w io.Writer)    { global().SetErrOutput(w) }

func Debug(format string, args ...any) { global().Debug(format, args...) }
func Info(format string, args ...any)  { global().Info(format, args...) }
func Warn(format string, args ...any)  { global().Warn(format, args...) }
func Error(format string, args ...any) { global().Error(format, args...) }

// Close closes the file output if it is an io.Closer.
func Close() error {
	l := global()
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.file.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Reset restores the default global logger.
func Reset() {
	ReplaceGlobal(NewLogger())
}

// Discard silences the global logger.
func Discard() {
	l := global()
	l.SetFileOutput(nil)
	l.SetErrOutput(nil)
}

// ReplaceGlobal installs l as the global logger and returns the previous one.
func ReplaceGlobal(l *Logger) *Logger {
	stdMu.Lock()
	defer stdMu.Unlock()
	old := std
	std = l
	return old
}

// Writer returns an io.Writer that logs each write at level.
func Writer(level Level) io.Writer {
	return levelWriter(level)
}

// StdLogger returns a *log.Logger that forwards to the global logger at
// level, for APIs such as http.Server.ErrorLog.
func StdLogger(level Level) *log.Logger {
	return log.New(Writer(level), "", 0)
}

type levelWriter Level

func (w levelWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSuffix(string(p), "\n")
	global().log(Level(w), "%s", msg)
	return len(p), nil
}
