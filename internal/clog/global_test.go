package clog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureGlobal(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	l := NewLogger()
	l.SetFileOutput(&buf)
	l.SetErrOutput(nil)
	l.SetLevel(LevelDebug)
	old := ReplaceGlobal(l)
	t.Cleanup(func() { ReplaceGlobal(old) })
	return &buf
}

func TestGlobalFunctions(t *testing.T) {
	buf := captureGlobal(t)

	Debug("debug %s", "msg")
	Info("info %s", "msg")
	Warn("warn %s", "msg")
	Error("error %s", "msg")

	output := buf.String()
	for _, want := range []string{"[DEBUG] debug msg", "[INFO] info msg", "[WARN] warn msg", "[ERROR] error msg"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestConfigure(t *testing.T) {
	defer Reset()
	SetErrOutput(nil)

	logPath := filepath.Join(t.TempDir(), "logs", "cmdbind.log")
	if err := Configure(Options{FilePath: logPath, Debug: true, ConsoleLevel: LevelInfo}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	defer func() { _ = Close() }()

	Debug("debug message")
	Info("test message")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(content), "debug message") {
		t.Errorf("expected debug message in log file, got: %s", content)
	}
	if !strings.Contains(string(content), "test message") {
		t.Errorf("expected message in log file, got: %s", content)
	}
}

func TestConfigure_NoFile(t *testing.T) {
	defer Reset()

	var console bytes.Buffer
	SetErrOutput(&console)
	if err := Configure(Options{ConsoleLevel: LevelInfo}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	Debug("hidden")
	Info("shown")

	if strings.Contains(console.String(), "hidden") {
		t.Errorf("debug should be filtered without Debug option, got: %s", console.String())
	}
	if !strings.Contains(console.String(), "shown") {
		t.Errorf("expected info on console, got: %s", console.String())
	}
}

func TestConfigure_BadPath(t *testing.T) {
	defer Reset()

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Configure(Options{FilePath: filepath.Join(blocker, "x.log")}); err == nil {
		t.Error("Configure() should fail when the log directory cannot be created")
	}
}

func TestDiscard(t *testing.T) {
	defer Reset()
	Discard()

	// Must not panic with both outputs disabled.
	Debug("test")
	Error("test")
}

func TestWriter_TrimsNewline(t *testing.T) {
	buf := captureGlobal(t)

	w := Writer(LevelInfo)
	if _, err := w.Write([]byte("from writer\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "[INFO] from writer") {
		t.Errorf("expected message from writer, got: %s", output)
	}
	if strings.Count(output, "\n") != 1 {
		t.Errorf("expected single newline, got: %q", output)
	}
}

func TestStdLogger(t *testing.T) {
	buf := captureGlobal(t)

	StdLogger(LevelWarn).Printf("http: TLS handshake error from %s", "127.0.0.1:1234")

	if !strings.Contains(buf.String(), "[WARN] http: TLS handshake error from 127.0.0.1:1234") {
		t.Errorf("expected forwarded message, got: %s", buf.String())
	}
}
