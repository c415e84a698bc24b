// Package clog is the operational log for cmdbind. User-facing CLI output
// lives in internal/term instead.
//
// Every message goes to the log file, when one is configured, at or above the
// logger level. The console (stderr) gets its own threshold: Warn for one-shot
// commands, Info while serving so that request lines are visible.
package clog

// Level represents the severity of a log message.
type Level int

const (
	// LevelDebug is verbose diagnostics, enabled with --debug.
	LevelDebug Level = iota
	// LevelInfo is normal operation: startup, routes, requests.
	LevelInfo
	// LevelWarn is a failed request precondition or a spawn failure.
	LevelWarn
	// LevelError is a failure of the server itself.
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
