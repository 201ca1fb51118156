package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ResetOutputDir removes the regular files directly inside dir, creating dir
// when it does not exist. Files that cannot be removed are logged and left.
func ResetOutputDir(dir string, logger *slog.Logger) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		logger.Info("created output directory", "dir", dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil {
			logger.Error("error deleting file", "file", path, "error", err)
			continue
		}
		removed++
	}
	logger.Debug("output directory reset", "dir", dir, "removed", removed)
	return nil
}
