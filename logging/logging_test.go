package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
)

func TestSetupLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "panelshot.log")

	logger, err := SetupLogger(path, "info")
	if err != nil {
		t.Fatalf("SetupLogger failed: %v", err)
	}
	logger.With("target", "1_prod").Info("login successful")
	logger.Debug("not written at info level")
	if err := CloseFile(); err != nil {
		t.Fatalf("CloseFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "login successful") || !strings.Contains(out, "target=1_prod") {
		t.Errorf("expected message with target attr, got %q", out)
	}
	if strings.Contains(out, "not written") {
		t.Errorf("debug line leaked into info log: %q", out)
	}
}

func TestSetupLogger_ConsoleOnly(t *testing.T) {
	logger, err := SetupLogger("", "warn")
	if err != nil {
		t.Fatalf("SetupLogger failed: %v", err)
	}
	if logger.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Enabled(t.Context(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestConsoleHandler_KeepsChainedAttrs(t *testing.T) {
	pterm.DisableColor()
	var buf bytes.Buffer
	console := newConsoleHandler(pterm.DefaultLogger.WithWriter(&buf).WithLevel(pterm.LogLevelInfo), slog.LevelInfo)
	logger := slog.New(&MultiHandler{handlers: []slog.Handler{console}})

	logger.With("run", "RUN-1").With("target", "17_cdh_prod").Info("login successful")

	out := buf.String()
	for _, want := range []string{"login successful", "RUN-1", "17_cdh_prod"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in console line, got %q", want, out)
		}
	}
}
