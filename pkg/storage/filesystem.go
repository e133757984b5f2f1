package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExportStore persists rendered report exports on disk under a base directory.
type ExportStore struct {
	baseDir string
}

// NewExportStore ensures the base directory exists and returns a handle.
func NewExportStore(baseDir string) (*ExportStore, error) {
	if baseDir == "" {
		baseDir = "./exports"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create exports directory: %w", err)
	}
	return &ExportStore{baseDir: baseDir}, nil
}

// Save writes the given bytes to the provided relative path under the base dir.
func (s *ExportStore) Save(filename string, data []byte) error {
	path := s.resolve(filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// Open returns a read-only handle for the stored file.
func (s *ExportStore) Open(filename string) (*os.File, error) {
	file, err := os.Open(s.resolve(filename))
	if err != nil {
		return nil, fmt.Errorf("open export file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present.
func (s *ExportStore) Delete(filename string) error {
	if err := os.Remove(s.resolve(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete export file: %w", err)
	}
	return nil
}

// Path exposes the underlying absolute path.
func (s *ExportStore) Path(filename string) string {
	return s.resolve(filename)
}

func (s *ExportStore) resolve(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(s.baseDir, filename)
}
