package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 10
	maxLogBackups = 3
	maxLogAgeDays = 30

	consoleTimeFormat = "2006-01-02 15:04:05"
)

// Log levels - aliases for zerolog levels
const (
	WarnLevel  = zerolog.WarnLevel
	InfoLevel  = zerolog.InfoLevel
	DebugLevel = zerolog.DebugLevel
)

// ErrConflictingVerbosity is returned when both verbose and quiet output are requested.
var ErrConflictingVerbosity = errors.New("cannot use both verbosity and quiet options together")

// Config defines the configuration for logger creation
type Config struct {
	// Writer receives every log line. Required.
	Writer io.Writer
	// File additionally receives JSON lines when set, regardless of Console.
	File io.Writer
	// Level is the minimum severity written, fixed for the lifetime of the logger.
	Level zerolog.Level
	// Console renders human-readable lines instead of JSON.
	Console bool
	// Color enables ANSI colors in console mode.
	Color bool
}

// LevelFromFlags maps the verbosity flags to a threshold.
// Verbose selects debug, quiet selects warn, neither selects info.
func LevelFromFlags(verbose, quiet bool) (zerolog.Level, error) {
	switch {
	case verbose && quiet:
		return zerolog.NoLevel, ErrConflictingVerbosity
	case verbose:
		return DebugLevel, nil
	case quiet:
		return WarnLevel, nil
	default:
		return InfoLevel, nil
	}
}

// New creates a new context with a logger attached
func New(ctx context.Context, config Config) (context.Context, error) {
	if config.Writer == nil {
		return nil, errors.New("writer required")
	}

	writer := config.Writer
	if config.Console {
		writer = zerolog.ConsoleWriter{
			Out:        config.Writer,
			NoColor:    !config.Color,
			TimeFormat: consoleTimeFormat,
		}
	}
	if config.File != nil {
		writer = zerolog.MultiLevelWriter(writer, config.File)
	}

	logger := zerolog.New(writer).With().
		Timestamp().
		Logger().
		Level(config.Level)

	return logger.WithContext(ctx), nil
}

// NewFileWriter returns a rotating writer for path, creating its directory on fs.
// The caller owns the returned logger and must Close it.
func NewFileWriter(fs afero.Fs, path string) (*lumberjack.Logger, error) {
	if err := fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
	}, nil
}

// Get retrieves the logger from the provided context
// Returns the logger associated with the context, or a disabled logger if none exists
func Get(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
