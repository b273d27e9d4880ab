package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			t.Logf("Failed to remove temporary directory: %v", err)
		}
	}()

	logFile := filepath.Join(tempDir, "test.log")

	logger := New(false, logFile, true)
	if logger == nil {
		t.Fatal("Expected non-nil logger with debug disabled")
	}

	if _, err := os.Stat(logFile); err == nil {
		t.Error("Expected no log file to be created when debug is disabled")
	}

	logger = New(true, logFile, true)
	if logger == nil {
		t.Fatal("Expected non-nil logger with debug enabled")
	}

	if _, err := os.Stat(logFile); err != nil {
		t.Errorf("Expected log file to be created when debug is enabled: %v", err)
	}

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	if !strings.Contains(string(content), "git-backup debug logging started") {
		t.Error("Expected initial message to be logged")
	}
}

func TestLogging(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			t.Logf("Failed to remove temporary directory: %v", err)
		}
	}()

	logFile := filepath.Join(tempDir, "test.log")

	logger := New(true, logFile, true)

	logger.Info("Test info message")
	logger.Warning("Test warning message")
	logger.Error("Test error message")

	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	logContent := string(content)

	for _, want := range []string{"Test info message", "Test warning message", "Test error message"} {
		if !strings.Contains(logContent, want) {
			t.Errorf("Expected %q to be logged", want)
		}
	}
}

func TestUserFacingOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer

	logger := NewWithOutput(false, "", false, &stdout, &stderr)

	logger.InfoToUser("info for user")
	logger.WarningToUser("warning for user")
	logger.Success("operation done")
	logger.StatusMessage("status line")
	logger.Error("something broke")

	out := stdout.String()
	for _, want := range []string{"info for user", "warning for user", "operation done", "status line"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected stdout to contain %q, got %q", want, out)
		}
	}

	if !strings.Contains(stderr.String(), "something broke") {
		t.Errorf("Expected stderr to contain error message, got %q", stderr.String())
	}
}

func TestVerboseSuppression(t *testing.T) {
	var stdout, stderr bytes.Buffer

	logger := NewWithOutput(false, "", false, &stdout, &stderr)
	logger.Warning("quiet warning")

	if strings.Contains(stdout.String(), "quiet warning") {
		t.Error("Expected Warning to be suppressed when verbose is off")
	}

	verbose := NewWithOutput(false, "", true, &stdout, &stderr)
	verbose.Warning("loud warning")

	if !strings.Contains(stdout.String(), "loud warning") {
		t.Error("Expected Warning to be shown when verbose is on")
	}
}
