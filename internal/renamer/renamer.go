// Package renamer renames disc images and their directories to the canonical
// name taken from a sibling checksum manifest.
package renamer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alocalareanetwork/renameiso/internal/constants"
	"github.com/alocalareanetwork/renameiso/internal/journal"
	"github.com/alocalareanetwork/renameiso/internal/logging"
	"github.com/alocalareanetwork/renameiso/internal/manifest"
	"github.com/spf13/afero"
)

// ErrDestinationExists is returned instead of overwriting an existing path.
var ErrDestinationExists = errors.New("destination already exists")

// Recorder persists performed renames.
type Recorder interface {
	Record(ctx context.Context, entry journal.Entry) error
}

// Confirmer approves a rename before it is applied.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Options configures a Renamer. Zero values fall back to the default extensions
// and disable the root guard, journal and confirmation.
type Options struct {
	Recorder    Recorder
	Confirmer   Confirmer
	ImageExt    string
	ManifestExt string
	// Root is the scan root. It is never renamed.
	Root  string
	RunID string
}

// Outcome describes what the file step did.
type Outcome int

const (
	// OutcomeNoManifest means the directory has zero or several manifests.
	OutcomeNoManifest Outcome = iota
	// OutcomeAlreadyCorrect means the file already carries the canonical name.
	OutcomeAlreadyCorrect
	// OutcomeDeclined means the rename was refused at the confirmation prompt.
	OutcomeDeclined
	// OutcomeRenamed means the file was renamed.
	OutcomeRenamed
	// OutcomeFailed accompanies a non-nil error.
	OutcomeFailed
)

// Renamed reports whether the file was renamed.
func (o Outcome) Renamed() bool {
	return o == OutcomeRenamed
}

func (o Outcome) String() string {
	switch o {
	case OutcomeNoManifest:
		return "no-manifest"
	case OutcomeAlreadyCorrect:
		return "already-correct"
	case OutcomeDeclined:
		return "declined"
	case OutcomeRenamed:
		return "renamed"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Renamer applies the file and directory rename steps on fs.
type Renamer struct {
	fs   afero.Fs
	opts Options
}

// New creates a Renamer operating on fs.
func New(fs afero.Fs, opts Options) *Renamer {
	if opts.ImageExt == "" {
		opts.ImageExt = constants.ImageExtension
	}
	if opts.ManifestExt == "" {
		opts.ManifestExt = constants.ManifestExtension
	}
	return &Renamer{fs: fs, opts: opts}
}

// RenameFile renames file to the canonical name of its directory, keeping the
// image extension. It returns the file's path after the call and the outcome;
// only OutcomeRenamed mutates the filesystem. A missing or ambiguous manifest
// and an already-correct name are not errors.
func (r *Renamer) RenameFile(ctx context.Context, file string) (string, Outcome, error) {
	logger := logging.Get(ctx)
	dir := filepath.Dir(file)
	stem := manifest.Stem(file)

	canonical, ok, err := manifest.Resolve(ctx, r.fs, dir, r.opts.ManifestExt)
	if err != nil {
		return file, OutcomeFailed, err
	}
	if !ok {
		logger.Warn().Str("path", file).
			Msgf("Skipping ISO file %s because no %s file found.", file, r.opts.ManifestExt)
		return file, OutcomeNoManifest, nil
	}

	if canonical == stem {
		logger.Info().Str("path", file).Msgf("ISO file %s already has the correct name.", file)
		return file, OutcomeAlreadyCorrect, nil
	}

	target := filepath.Join(dir, canonical+r.opts.ImageExt)
	if err := r.checkDestination(file, target); err != nil {
		return file, OutcomeFailed, err
	}

	approved, err := r.confirm(fmt.Sprintf("Rename ISO file %s to %s?", file, target))
	if err != nil {
		return file, OutcomeFailed, err
	}
	if !approved {
		logger.Info().Str("path", file).Msgf("Declined renaming ISO file %s", file)
		return file, OutcomeDeclined, nil
	}

	if err := r.fs.Rename(file, target); err != nil {
		return file, OutcomeFailed, fmt.Errorf("failed to rename %s to %s: %w", file, target, err)
	}
	logger.Info().Str("from", file).Str("to", target).
		Msgf("Renamed ISO file from %s to %s", file, target)

	r.record(ctx, journal.KindFile, file, target)

	return target, OutcomeRenamed, nil
}

// RenameContainingDirectory renames the directory holding file to the file's
// stem. The directory is only moved when it holds exactly one image file.
// Pass the path returned by RenameFile so the new stem is used.
func (r *Renamer) RenameContainingDirectory(ctx context.Context, file string) (bool, error) {
	logger := logging.Get(ctx)
	dir := filepath.Dir(file)
	target := manifest.Stem(file)

	if filepath.Base(dir) == target {
		logger.Info().Str("dir", dir).Msgf("Directory %s already has the correct name.", dir)
		return false, nil
	}

	images, err := r.countImages(dir)
	if err != nil {
		return false, err
	}
	if images != 1 {
		logger.Warn().Str("dir", dir).Int("images", images).
			Msgf("Directory %s contains multiple %s files. Skipping renaming.", dir, r.opts.ImageExt)
		return false, nil
	}

	if r.opts.Root != "" && filepath.Clean(dir) == filepath.Clean(r.opts.Root) {
		logger.Warn().Str("dir", dir).Msgf("Directory %s is the scan root. Skipping renaming.", dir)
		return false, nil
	}

	newDir := filepath.Join(filepath.Dir(dir), target)
	if err := r.checkDestination(dir, newDir); err != nil {
		return false, err
	}

	approved, err := r.confirm(fmt.Sprintf("Rename directory %s to %s?", dir, newDir))
	if err != nil {
		return false, err
	}
	if !approved {
		logger.Info().Str("dir", dir).Msgf("Declined renaming directory %s", dir)
		return false, nil
	}

	if err := r.fs.Rename(dir, newDir); err != nil {
		return false, fmt.Errorf("failed to rename %s to %s: %w", dir, newDir, err)
	}
	logger.Info().Str("from", dir).Str("to", newDir).
		Msgf("Renamed directory from %s to %s", dir, newDir)

	r.record(ctx, journal.KindDirectory, dir, newDir)

	return true, nil
}

// countImages counts regular files directly inside dir with the image extension.
func (r *Renamer) countImages(dir string) (int, error) {
	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	count := 0
	for _, entry := range entries {
		if entry.Mode().IsRegular() && strings.HasSuffix(entry.Name(), r.opts.ImageExt) {
			count++
		}
	}
	return count, nil
}

// checkDestination fails when target exists and is not src itself, which
// happens for case-only renames on case-insensitive filesystems.
func (r *Renamer) checkDestination(src, target string) error {
	targetInfo, err := r.fs.Stat(target)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", target, err)
	}

	srcInfo, err := r.fs.Stat(src)
	if err == nil && os.SameFile(srcInfo, targetInfo) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrDestinationExists, target)
}

func (r *Renamer) confirm(question string) (bool, error) {
	if r.opts.Confirmer == nil {
		return true, nil
	}
	ok, err := r.opts.Confirmer.Confirm(question)
	if err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return ok, nil
}

// record journals a completed rename. The rename already happened, so a
// journal failure is logged rather than returned.
func (r *Renamer) record(ctx context.Context, kind journal.Kind, from, to string) {
	if r.opts.Recorder == nil {
		return
	}
	err := r.opts.Recorder.Record(ctx, journal.Entry{
		RunID:   r.opts.RunID,
		Kind:    kind,
		OldPath: from,
		NewPath: to,
	})
	if err != nil {
		logging.Get(ctx).Error().Err(err).Str("from", from).Str("to", to).Msg("failed to journal rename")
	}
}
