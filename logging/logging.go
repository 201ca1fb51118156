package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogger returns a logger writing to the console through pterm and,
// when logFile is set, to a rotated plain-text file.
func SetupLogger(logFile, level string) (*slog.Logger, error) {
	lvl := parseLevel(level)

	console := pterm.DefaultLogger.WithLevel(ptermLevel(lvl)).WithTime(true)
	if !isatty.IsTerminal(os.Stderr.Fd()) || os.Getenv("NO_COLOR") != "" {
		pterm.DisableColor()
	}
	consoleHandler := newConsoleHandler(console, lvl)

	if logFile == "" {
		return slog.New(consoleHandler), nil
	}

	logDir := filepath.Dir(logFile)
	if logDir != "" && logDir != "." {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}

	fileWriter = &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    20, // MB
		MaxBackups: 5,
		MaxAge:     28, // days
	}

	fileHandler := tint.NewHandler(fileWriter, &tint.Options{
		Level:      lvl,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	})

	return slog.New(&MultiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}}), nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ptermLevel(lvl slog.Level) pterm.LogLevel {
	switch {
	case lvl <= slog.LevelDebug:
		return pterm.LogLevelDebug
	case lvl <= slog.LevelInfo:
		return pterm.LogLevelInfo
	case lvl <= slog.LevelWarn:
		return pterm.LogLevelWarn
	default:
		return pterm.LogLevelError
	}
}

// levelHandler gates a handler that does not filter on its own. It also
// accumulates attributes itself, since pterm's WithAttrs replaces the set it
// was given earlier.
type levelHandler struct {
	level slog.Level
	base  slog.Handler
	attrs []slog.Attr
	slog.Handler
}

func newConsoleHandler(logger *pterm.Logger, lvl slog.Level) *levelHandler {
	base := pterm.NewSlogHandler(logger)
	return &levelHandler{level: lvl, base: base, Handler: base}
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level && h.Handler.Enabled(ctx, level)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	all := append(slices.Clone(h.attrs), attrs...)
	return &levelHandler{level: h.level, base: h.base, attrs: all, Handler: h.base.WithAttrs(all)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	base := h.base.WithGroup(name)
	next := base
	if len(h.attrs) > 0 {
		next = base.WithAttrs(h.attrs)
	}
	return &levelHandler{level: h.level, base: base, attrs: h.attrs, Handler: next}
}

type MultiHandler struct {
	handlers []slog.Handler
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: newHandlers}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: newHandlers}
}

var fileWriter *lumberjack.Logger

// CloseFile closes the log file writer if one was opened.
func CloseFile() error {
	if fileWriter != nil {
		return fileWriter.Close()
	}
	return nil
}
