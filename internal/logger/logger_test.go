package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "cubetool.log")

	// 1MB is the smallest size lumberjack rotates at.
	l, err := New(Config{
		Level: "debug",
		File: FileConfig{
			Path:       logFile,
			MaxSizeMB:  1,
			MaxBackups: 2,
			MaxAgeDays: 1,
		},
	})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	long := strings.Repeat("x", 200)
	for i := 0; i < 8000; i++ {
		l.Sugar().Infof("entry %d: %s", i, long)
	}
	_ = l.Sync()

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read log dir: %v", err)
	}

	rotated := 0
	for _, f := range files {
		if f.Name() != "cubetool.log" && strings.HasPrefix(f.Name(), "cubetool-") {
			rotated++
		}
	}
	if rotated == 0 {
		t.Errorf("expected a rotated log file, found %d files", len(files))
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{`"level":"error"`}, []string{`"level":"warn"`, `"level":"info"`, `"level":"debug"`}},
		{"warn", []string{`"level":"error"`, `"level":"warn"`}, []string{`"level":"info"`, `"level":"debug"`}},
		{"info", []string{`"level":"warn"`, `"level":"info"`}, []string{`"level":"debug"`}},
		{"debug", []string{`"level":"info"`, `"level":"debug"`}, nil},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(dir, tt.level+".log")
			l, err := New(Config{Level: tt.level, File: FileConfig{Path: logFile, MaxSizeMB: 10}})
			if err != nil {
				t.Fatalf("failed to create logger: %v", err)
			}

			l.Debug("debug message")
			l.Info("info message")
			l.Warn("warn message")
			l.Error("error message")
			_ = l.Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}

			for _, exp := range tt.expected {
				if !strings.Contains(string(content), exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(string(content), exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestUnknownLevel(t *testing.T) {
	if _, err := New(Config{Level: "verbose"}); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestNamedConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithConfig(Config{Level: "info", Console: &buf}); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	t.Cleanup(func() { Log = Nop(); Sugar = Log.Sugar() })

	Named("raycast").Info("hit")
	Sync()

	out := buf.String()
	if !strings.Contains(out, "raycast") || !strings.Contains(out, "hit") {
		t.Errorf("expected component name and message, got %q", out)
	}
}

func TestNoOutputIsNop(t *testing.T) {
	l, err := New(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(0) {
		t.Error("expected a no-op logger when no output is configured")
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/cubetool.log")

	if cfg.Path != "/tmp/cubetool.log" {
		t.Errorf("expected path /tmp/cubetool.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 {
		t.Errorf("expected MaxSizeMB 20, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", cfg.MaxBackups)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
