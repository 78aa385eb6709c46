// Package runner drives discovery and the two rename steps over a tree,
// isolating per-file failures so one bad item never stops the batch.
package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alocalareanetwork/renameiso/internal/constants"
	"github.com/alocalareanetwork/renameiso/internal/logging"
	"github.com/alocalareanetwork/renameiso/internal/manifest"
	"github.com/alocalareanetwork/renameiso/internal/prompt"
	"github.com/alocalareanetwork/renameiso/internal/renamer"
	"github.com/alocalareanetwork/renameiso/internal/scanner"
	"github.com/spf13/afero"
)

// Options configures a batch run.
type Options struct {
	Fs        afero.Fs
	Recorder  renamer.Recorder
	Confirmer renamer.Confirmer
	Root      string
	ImageExt  string
	// ManifestExt is the manifest suffix; empty uses the default.
	ManifestExt string
	RunID       string
	// Resume also runs the directory step for files that already carry the
	// canonical name, finishing trees left half-renamed by an earlier run.
	Resume bool
}

// Run discovers every image under opts.Root and renames it and its directory.
// Discovery failures and a cancelled confirmation prompt are returned; any
// other per-file failure is logged, counted in Failed, and the batch goes on.
func Run(ctx context.Context, opts Options) (RunStats, error) {
	var stats RunStats
	logger := logging.Get(ctx)

	rn := renamer.New(opts.Fs, renamer.Options{
		Recorder:    opts.Recorder,
		Confirmer:   opts.Confirmer,
		ImageExt:    opts.ImageExt,
		ManifestExt: opts.ManifestExt,
		Root:        opts.Root,
		RunID:       opts.RunID,
	})

	imageExt := opts.ImageExt
	if imageExt == "" {
		imageExt = constants.ImageExtension
	}

	files, err := scanner.Discover(opts.Fs, opts.Root, imageExt)
	if err != nil {
		return stats, fmt.Errorf("file discovery failed: %w", err)
	}

	stats.Total = len(files)
	logger.Debug().Str("root", opts.Root).Int("files", stats.Total).Str("run_id", opts.RunID).
		Msgf("Found %d %s files under %s", stats.Total, imageExt, opts.Root)

	for i, path := range files {
		if ctx.Err() != nil {
			logger.Warn().Int("processed", i).Msg("Interrupted")
			break
		}

		moved, err := processFile(ctx, rn, opts.Resume, path, &stats)
		if err != nil {
			logSummary(ctx, &stats)
			return stats, err
		}
		if moved != nil {
			rebase(files[i+1:], moved.from, moved.to)
		}
	}

	logSummary(ctx, &stats)
	return stats, nil
}

// dirMove is a directory rename applied while processing one file.
type dirMove struct {
	from string
	to   string
}

// processFile runs both steps for one image and reports the directory move,
// if any. It only returns an error when the user cancelled, which ends the
// whole batch.
func processFile(
	ctx context.Context, rn *renamer.Renamer, resume bool, path string, stats *RunStats,
) (*dirMove, error) {
	logger := logging.Get(ctx)
	logger.Debug().Str("path", path).Msg("Processing ISO file")

	newPath, outcome, err := rn.RenameFile(ctx, path)
	if err != nil {
		return nil, handleFailure(ctx, path, err, stats)
	}

	runDirStep := outcome.Renamed() || (resume && outcome == renamer.OutcomeAlreadyCorrect)
	if outcome.Renamed() {
		stats.FilesRenamed++
	}
	if !runDirStep {
		stats.Skipped++
		return nil, nil
	}

	dirRenamed, err := rn.RenameContainingDirectory(ctx, newPath)
	if err != nil {
		return nil, handleFailure(ctx, newPath, err, stats)
	}
	if !dirRenamed {
		if !outcome.Renamed() {
			stats.Skipped++
		}
		return nil, nil
	}

	stats.DirsRenamed++
	dir := filepath.Dir(newPath)
	return &dirMove{from: dir, to: filepath.Join(filepath.Dir(dir), manifest.Stem(newPath))}, nil
}

// rebase rewrites paths below from so they point below to.
func rebase(paths []string, from, to string) {
	prefix := from + string(filepath.Separator)
	for i, p := range paths {
		if strings.HasPrefix(p, prefix) {
			paths[i] = filepath.Join(to, strings.TrimPrefix(p, prefix))
		}
	}
}

func handleFailure(ctx context.Context, path string, err error, stats *RunStats) error {
	if errors.Is(err, prompt.ErrCancelled) {
		return err
	}
	logging.Get(ctx).Error().Err(err).Str("path", path).Msgf("Failed to process %s", path)
	stats.Failed++
	return nil
}

func logSummary(ctx context.Context, stats *RunStats) {
	logging.Get(ctx).Info().
		Int("total", stats.Total).
		Int("files_renamed", stats.FilesRenamed).
		Int("dirs_renamed", stats.DirsRenamed).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Msgf("Processed %d ISO files: %d renamed, %d directories renamed, %d skipped, %d failed",
			stats.Total, stats.FilesRenamed, stats.DirsRenamed, stats.Skipped, stats.Failed)
}
