package logging

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_WithoutLogger(t *testing.T) {
	t.Parallel()

	logger := Get(context.Background())

	require.NotNil(t, logger)
	// When no logger is attached, zerolog.Ctx returns a disabled logger
	require.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestNew_WithCustomWriter(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	ctx, err := New(context.Background(), Config{Writer: &buf, Level: InfoLevel})
	require.NoError(t, err)

	logger := Get(ctx)
	assert.Equal(t, InfoLevel, logger.GetLevel())

	logger.Info().Str("path", "/games/a.iso").Msg("hello")
	assert.Contains(t, buf.String(), `"message":"hello"`)
	assert.Contains(t, buf.String(), `"path":"/games/a.iso"`)
}

func TestNew_NoWriter_ReturnsError(t *testing.T) {
	t.Parallel()

	ctx, err := New(context.Background(), Config{Level: InfoLevel})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "writer required")
	assert.Nil(t, ctx)
}

func TestNew_ConsoleIsHumanReadable(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	ctx, err := New(context.Background(), Config{Writer: &buf, Level: InfoLevel, Console: true})
	require.NoError(t, err)

	Get(ctx).Warn().Msg("No .sfv files found in directory: /games/a")

	out := buf.String()
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "No .sfv files found in directory: /games/a")
	assert.NotContains(t, out, `"message"`)
	assert.NotContains(t, out, "\x1b[")
}

func TestNew_FileReceivesJSON(t *testing.T) {
	t.Parallel()

	var console, file strings.Builder
	ctx, err := New(context.Background(), Config{Writer: &console, File: &file, Level: InfoLevel, Console: true})
	require.NoError(t, err)

	Get(ctx).Info().Str("from", "/a").Msg("Renamed ISO file from /a to /b")

	assert.Contains(t, console.String(), "INF")
	assert.Contains(t, file.String(), `"level":"info"`)
	assert.Contains(t, file.String(), `"from":"/a"`)
}

func TestNew_LevelFiltersBelowThreshold(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	ctx, err := New(context.Background(), Config{Writer: &buf, Level: WarnLevel})
	require.NoError(t, err)

	Get(ctx).Info().Msg("progress")
	Get(ctx).Warn().Msg("skipped")

	assert.NotContains(t, buf.String(), "progress")
	assert.Contains(t, buf.String(), "skipped")
}

func TestLevelFromFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		want    zerolog.Level
	}{
		{name: "neither", want: InfoLevel},
		{name: "verbose", verbose: true, want: DebugLevel},
		{name: "quiet", quiet: true, want: WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			level, err := LevelFromFlags(tt.verbose, tt.quiet)
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}
}

func TestLevelFromFlags_BothSet(t *testing.T) {
	t.Parallel()

	_, err := LevelFromFlags(true, true)
	require.ErrorIs(t, err, ErrConflictingVerbosity)
}

func TestNewFileWriter_CreatesDirectory(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	path := filepath.Join("/var/log/renameiso", "renameiso.log")

	writer, err := NewFileWriter(fs, path)
	require.NoError(t, err)

	assert.Equal(t, path, writer.Filename)
	assert.Equal(t, maxLogSizeMB, writer.MaxSize)
	assert.Equal(t, maxLogBackups, writer.MaxBackups)
	assert.Equal(t, maxLogAgeDays, writer.MaxAge)

	exists, err := afero.DirExists(fs, "/var/log/renameiso")
	require.NoError(t, err)
	assert.True(t, exists)
}
