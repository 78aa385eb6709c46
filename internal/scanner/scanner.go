// Package scanner discovers disc-image files beneath a root directory.
package scanner

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrRootNotFound is returned when the scan root does not exist.
	ErrRootNotFound = errors.New("root directory not found")
	// ErrRootNotDirectory is returned when the scan root is not a directory.
	ErrRootNotDirectory = errors.New("root is not a directory")
)

// Discover walks root at unbounded depth and returns every non-directory path
// whose name ends with ext. Matching is case-sensitive on the exact suffix.
// Paths come back in walk order; each match appears exactly once.
func Discover(fs afero.Fs, root, ext string) ([]string, error) {
	info, err := fs.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("failed to stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDirectory, root)
	}

	files := []string{}
	err = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasSuffix(info.Name(), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return files, nil
}
