package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/salespilot/salespilot/internal/storage"
)

// FetchFile downloads a dataset file from the object store into a fresh temp
// directory and returns the local path. Used at startup when the sales file
// lives in a bucket instead of on local disk.
func FetchFile(ctx context.Context, store storage.ObjectStore, key string) (string, error) {
	if store == nil {
		return "", fmt.Errorf("object store is required")
	}
	if key == "" {
		return "", fmt.Errorf("object key is required")
	}

	reader, err := store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("get object %q: %w", key, err)
	}
	defer func() { _ = reader.Close() }()

	dir, err := os.MkdirTemp("", "salespilot-dataset-")
	if err != nil {
		return "", fmt.Errorf("create dataset temp dir: %w", err)
	}

	localPath := filepath.Join(dir, filepath.Base(key))
	file, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("create local dataset file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if _, err := io.Copy(file, reader); err != nil {
		return "", fmt.Errorf("write local dataset file %q: %w", localPath, err)
	}
	return localPath, nil
}
