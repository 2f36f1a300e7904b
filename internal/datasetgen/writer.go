package datasetgen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/shadowsettle/internal/domain/model"
	"github.com/okian/shadowsettle/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Save writes ds as indented JSON to path, creating parent directories.
func Save(ctx context.Context, path string, ds model.Dataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create dataset directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	logger.Named("datasetgen").Info(ctx, "dataset written",
		logger.String("path", path),
		logger.Int("participants", len(ds.Participants)))
	return nil
}
