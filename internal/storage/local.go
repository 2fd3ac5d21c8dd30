package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirPerm  = 0o750
	filePerm = 0o640
)

// Local stores blobs as files under a base directory.
type Local struct {
	baseDir string
}

// NewLocal creates a filesystem backend rooted at baseDir, creating the
// directory if needed.
func NewLocal(baseDir string) (*Local, error) {
	if baseDir == "" {
		baseDir = "."
	}

	if err := os.MkdirAll(baseDir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &Local{baseDir: baseDir}, nil
}

// Put writes the blob to a file under the base directory.
func (l *Local) Put(_ context.Context, key string, data []byte, _ string) error {
	path, err := l.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}

	return nil
}

// Get reads the blob from disk.
func (l *Local) Get(_ context.Context, key string) ([]byte, error) {
	path, err := l.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is confined to baseDir by resolve
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrObjectNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	return data, nil
}

// Delete removes the file; missing files are ignored.
func (l *Local) Delete(_ context.Context, key string) error {
	path, err := l.resolve(key)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

// resolve maps a key to a path inside the base directory and rejects keys
// that would escape it.
func (l *Local) resolve(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	cleaned := filepath.Clean(key)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", ErrInvalidKey
	}

	return filepath.Join(l.baseDir, cleaned), nil
}
