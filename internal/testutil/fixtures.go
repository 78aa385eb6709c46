package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// CreateFile writes an empty file at path on fs, creating parent directories.
func CreateFile(t *testing.T, fs afero.Fs, path string) {
	t.Helper()

	if err := fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := afero.WriteFile(fs, path, nil, 0o600); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
}

// CreateDir creates path and any missing parents on fs.
func CreateDir(t *testing.T, fs afero.Fs, path string) {
	t.Helper()

	if err := fs.MkdirAll(path, 0o750); err != nil {
		t.Fatalf("Failed to create directory %s: %v", path, err)
	}
}

// Exists reports whether path exists on fs, failing the test on stat errors.
func Exists(t *testing.T, fs afero.Fs, path string) bool {
	t.Helper()

	ok, err := afero.Exists(fs, path)
	if err != nil {
		t.Fatalf("Failed to stat %s: %v", path, err)
	}
	return ok
}
