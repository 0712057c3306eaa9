package common

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// ClampInt64ToInt returns the int value, clamped to the int range on 32-bit
// platforms
func ClampInt64ToInt(v int64) int {
	if v > math.MaxInt {
		return math.MaxInt
	}

	if v < math.MinInt {
		return math.MinInt
	}

	return int(v)
}

// SetupDataDir sets up the data directory and sub-folders
func SetupDataDir(dataDir string, paths []string) error {
	if err := createDir(dataDir); err != nil {
		return fmt.Errorf("failed to create data dir: (%s): %w", dataDir, err)
	}

	for _, path := range paths {
		path := filepath.Join(dataDir, path)
		if err := createDir(path); err != nil {
			return fmt.Errorf("failed to create path: (%s): %w", path, err)
		}
	}

	return nil
}

// createDir creates a file system directory if it doesn't exist
func createDir(path string) error {
	_, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	if os.IsNotExist(err) {
		if err := os.MkdirAll(path, os.ModePerm); err != nil {
			return err
		}
	}

	return nil
}
