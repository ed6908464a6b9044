package intake

import (
	"fmt"
	"os"
	"path/filepath"
)

// MoveProcessed relocates ingested files into processedDir so the next run
// does not re-merge them. Re-merging a batch double-counts amounts, so
// callers that leave files in place must track processed batches themselves.
func MoveProcessed(files []string, processedDir string) error {
	if err := os.MkdirAll(processedDir, 0o750); err != nil {
		return fmt.Errorf("create processed directory %s: %w", processedDir, err)
	}

	for _, path := range files {
		target := filepath.Join(processedDir, filepath.Base(path))
		if err := os.Rename(path, target); err != nil {
			return fmt.Errorf("move %s to %s: %w", path, target, err)
		}
	}
	return nil
}
