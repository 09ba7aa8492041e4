// Package storage manages the on-disk data directory holding the session
// secret and uploaded assets. Portfolio content itself never touches disk;
// it lives in memory for the lifetime of the process.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir is a rooted directory with traversal-safe path resolution and atomic
// writes.
type Dir struct {
	root string // absolute path to the data directory
}

// New creates a Dir rooted at the given directory. The directory must
// already exist.
func New(root string) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &Dir{root: abs}, nil
}

// Root returns the absolute data directory path.
func (d *Dir) Root() string { return d.root }

// Path resolves a relative path against the root and rejects any result
// that escapes it (directory traversal).
func (d *Dir) Path(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("storage: empty path")
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	abs, err := filepath.Abs(filepath.Join(d.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, d.root+string(os.PathSeparator)) && abs != d.root {
		return "", fmt.Errorf("storage: path escapes data directory: %s", rel)
	}
	return abs, nil
}

// Read returns the raw bytes of a data file.
func (d *Dir) Read(rel string) ([]byte, error) {
	abs, err := d.Path(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", rel, err)
	}
	return data, nil
}

// Exists reports whether rel resolves to an existing regular file.
func (d *Dir) Exists(rel string) bool {
	abs, err := d.Path(rel)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}

// Write atomically writes content: tmp file, fsync, rename. Parent
// directories are created as needed.
func (d *Dir) Write(rel string, content []byte) error {
	abs, err := d.Path(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir for %s: %w", rel, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(abs), ".folio-*")
	if err != nil {
		return fmt.Errorf("storage: create temp for %s: %w", rel, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: write temp for %s: %w", rel, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: sync temp for %s: %w", rel, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp for %s: %w", rel, err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename into %s: %w", rel, err)
	}
	return nil
}
