// Package manifest derives a directory's canonical name from its checksum manifest.
package manifest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alocalareanetwork/renameiso/internal/logging"
	"github.com/spf13/afero"
)

// Resolve returns the stem of the single manifest file directly inside dir.
// Only non-directory entries ending with ext count. When there is not exactly
// one, a warning is logged and ok is false. Manifest contents are never read.
func Resolve(ctx context.Context, fs afero.Fs, dir, ext string) (name string, ok bool, err error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return "", false, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var manifests []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		manifests = append(manifests, entry.Name())
	}

	logger := logging.Get(ctx)
	switch len(manifests) {
	case 0:
		logger.Warn().Str("dir", dir).Msgf("No %s files found in directory: %s", ext, dir)
		return "", false, nil
	case 1:
		if strings.TrimSuffix(manifests[0], ext) == "" {
			logger.Warn().Str("dir", dir).
				Msgf("Ignoring %s file without a name in directory: %s", ext, dir)
			return "", false, nil
		}
		return Stem(manifests[0]), true, nil
	default:
		logger.Warn().Str("dir", dir).Strs("manifests", manifests).
			Msgf("Multiple %s files found in directory: %s", ext, dir)
		return "", false, nil
	}
}

// Stem returns the base name of path with its final extension removed.
// Leading dots do not start an extension, so ".sfv" is its own stem.
func Stem(path string) string {
	base := filepath.Base(path)
	if !strings.Contains(strings.TrimLeft(base, "."), ".") {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
