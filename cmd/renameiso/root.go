package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alocalareanetwork/renameiso/internal/config"
	"github.com/alocalareanetwork/renameiso/internal/journal"
	"github.com/alocalareanetwork/renameiso/internal/logging"
	"github.com/alocalareanetwork/renameiso/internal/prompt"
	"github.com/alocalareanetwork/renameiso/internal/runner"
	"github.com/alocalareanetwork/renameiso/internal/storage"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// ErrRunInProgress is returned when another renameiso process holds the run lock.
var ErrRunInProgress = errors.New("another renameiso run is in progress")

type rootOptions struct {
	logFile     string
	verbose     bool
	quiet       bool
	resume      bool
	interactive bool
	noJournal   bool
}

// createRootCommand creates the rename command with the history and config subcommands.
func createRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "renameiso [flags] <directory>",
		Short: "Rename ISO files and their directories to match SFV files",
		Long: `Recursively finds ISO files under a directory and renames each one to the
base name of the single SFV file beside it, then renames the containing
directory to match. The directory given on the command line is never renamed
itself, only directories below it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(cmd, opts, args[0])
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().String("state-dir", "", "Directory for the journal and run lock")

	flags := rootCmd.Flags()
	flags.BoolVarP(&opts.verbose, "verbosity", "v", false, "Enable debug output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Only show warnings and errors")
	flags.BoolVarP(&opts.resume, "resume", "r", false, "Also fix directories of files that are already named correctly")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "Confirm each rename")
	flags.StringVar(&opts.logFile, "log-file", "", "Append diagnostics to a rotating log file")
	flags.BoolVar(&opts.noJournal, "no-journal", false, "Do not record renames in the journal")

	rootCmd.AddCommand(
		createHistoryCommand(),
		createConfigCommand(),
	)

	return rootCmd
}

func runRename(cmd *cobra.Command, opts *rootOptions, root string) error {
	level, err := logging.LevelFromFlags(opts.verbose, opts.quiet)
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()

	cfg, err := loadConfig(cmd, fs)
	if err != nil {
		return err
	}
	applyFlags(cmd, opts, cfg)

	store, err := storageFromCommand(cmd, fs, cfg)
	if err != nil {
		return err
	}

	ctx, closeLog, err := setupLogging(cmd, fs, level, cfg.Logging.File)
	if err != nil {
		return err
	}
	defer closeLog()

	unlock, err := acquireRunLock(store)
	if err != nil {
		return err
	}
	defer unlock()

	runOpts := runner.Options{
		Fs:          fs,
		Root:        root,
		ImageExt:    cfg.ImageExtension,
		ManifestExt: cfg.ManifestExtension,
		RunID:       uuid.NewString(),
		Resume:      cfg.Resume,
	}

	if cfg.Journal.Enabled {
		jrnl, err := openJournal(ctx, store)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := jrnl.Close(); closeErr != nil {
				logging.Get(ctx).Warn().Err(closeErr).Msg("failed to close journal")
			}
		}()
		runOpts.Recorder = jrnl
	}

	if opts.interactive {
		confirmer := prompt.NewConfirmer(prompt.NewLinerPrompter())
		defer func() { _ = confirmer.Close() }()
		runOpts.Confirmer = confirmer
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logging.Get(ctx).Debug().Str("run_id", runOpts.RunID).Msgf("Scanning %s", root)

	if _, err := runner.Run(ctx, runOpts); err != nil {
		return fmt.Errorf("rename run failed: %w", err)
	}
	return nil
}

// loadConfig reads the file named by --config, or the default config file
// when it exists. Without either, defaults are used.
func loadConfig(cmd *cobra.Command, fs afero.Fs) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	if path == "" {
		path = storage.New(fs).GetConfigPath()
		exists, err := afero.Exists(fs, path)
		if err != nil {
			return nil, fmt.Errorf("failed to check config file %s: %w", path, err)
		}
		if !exists {
			return config.DefaultConfig(), nil
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// applyFlags overrides config values with flags given on the command line.
func applyFlags(cmd *cobra.Command, opts *rootOptions, cfg *config.Config) {
	if cmd.Flags().Changed("resume") {
		cfg.Resume = opts.resume
	}
	if opts.logFile != "" {
		cfg.Logging.File = opts.logFile
	}
	if opts.noJournal {
		cfg.Journal.Enabled = false
	}
}

func storageFromCommand(cmd *cobra.Command, fs afero.Fs, cfg *config.Config) (*storage.Manager, error) {
	stateDir, err := cmd.Flags().GetString("state-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get state-dir flag: %w", err)
	}
	if stateDir == "" {
		stateDir = cfg.StateDir
	}
	return storage.NewWithDataDir(fs, stateDir), nil
}

func setupLogging(
	cmd *cobra.Command,
	fs afero.Fs,
	level zerolog.Level,
	logFile string,
) (context.Context, func(), error) {
	stderr := cmd.ErrOrStderr()
	logConfig := logging.Config{
		Writer:  stderr,
		Level:   level,
		Console: true,
		Color:   shouldColorize(stderr),
	}

	closeLog := func() {}
	if logFile != "" {
		fileWriter, err := logging.NewFileWriter(fs, logFile)
		if err != nil {
			return nil, nil, err
		}
		logConfig.File = fileWriter
		closeLog = func() { _ = fileWriter.Close() }
	}

	ctx, err := logging.New(cmd.Context(), logConfig)
	if err != nil {
		closeLog()
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return ctx, closeLog, nil
}

func acquireRunLock(store *storage.Manager) (func(), error) {
	lockPath, err := store.GetLockPath()
	if err != nil {
		return nil, err
	}

	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", lockPath, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock: %s)", ErrRunInProgress, lockPath)
	}
	return func() { _ = lock.Unlock() }, nil
}

func openJournal(ctx context.Context, store *storage.Manager) (*journal.Journal, error) {
	path, err := store.GetJournalPath()
	if err != nil {
		return nil, err
	}
	jrnl, err := journal.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return jrnl, nil
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
