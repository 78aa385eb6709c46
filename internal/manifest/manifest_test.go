package manifest

import (
	"path/filepath"
	"testing"

	"github.com/alocalareanetwork/renameiso/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	testutil.VerifyTestMain(m)
}

func TestResolve_NoManifest(t *testing.T) {
	t.Parallel()
	ctx, logs := testutil.NewTestContext(t)

	fs := afero.NewMemMapFs()
	testutil.CreateFile(t, fs, "/games/game_0/test.iso")

	name, ok, err := Resolve(ctx, fs, "/games/game_0", ".sfv")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, name)
	assert.Contains(t, logs(), "No .sfv files found in directory: /games/game_0")
	assert.Contains(t, logs(), `"level":"warn"`)
}

func TestResolve_SingleManifest(t *testing.T) {
	t.Parallel()
	ctx, logs := testutil.NewTestContext(t)

	fs := afero.NewMemMapFs()
	testutil.CreateFile(t, fs, "/games/game_0/test.sfv")

	name, ok, err := Resolve(ctx, fs, "/games/game_0", ".sfv")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "test", name)
	assert.Empty(t, logs())
}

func TestResolve_MultipleManifests(t *testing.T) {
	t.Parallel()
	ctx, logs := testutil.NewTestContext(t)

	fs := afero.NewMemMapFs()
	testutil.CreateFile(t, fs, "/games/game_0/test1.sfv")
	testutil.CreateFile(t, fs, "/games/game_0/test2.sfv")

	name, ok, err := Resolve(ctx, fs, "/games/game_0", ".sfv")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, name)
	assert.Contains(t, logs(), "Multiple .sfv files found in directory: /games/game_0")
}

func TestResolve_ManifestWithoutName(t *testing.T) {
	t.Parallel()
	ctx, logs := testutil.NewTestContext(t)

	fs := afero.NewMemMapFs()
	testutil.CreateFile(t, fs, "/isos/game/.sfv")

	name, ok, err := Resolve(ctx, fs, "/isos/game", ".sfv")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, name)
	assert.Contains(t, logs(), "Ignoring .sfv file without a name in directory: /isos/game")
}

func TestResolve_IgnoresSubdirectories(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.NewTestContext(t)

	fs := afero.NewMemMapFs()
	testutil.CreateFile(t, fs, "/games/game_0/canonical.sfv")
	testutil.CreateFile(t, fs, "/games/game_0/nested/other.sfv")
	testutil.CreateDir(t, fs, "/games/game_0/folder.sfv")

	name, ok, err := Resolve(ctx, fs, "/games/game_0", ".sfv")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "canonical", name)
}

func TestResolve_MissingDirectory(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.NewTestContext(t)

	_, ok, err := Resolve(ctx, afero.NewMemMapFs(), "/missing", ".sfv")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestStem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{path: "test.sfv", want: "test"},
		{path: filepath.Join("/games", "Game (USA).iso"), want: "Game (USA)"},
		{path: "disc.v1.2.iso", want: "disc.v1.2"},
		{path: "noext", want: "noext"},
		{path: ".sfv", want: ".sfv"},
		{path: "..iso", want: "..iso"},
		{path: ".hidden.iso", want: ".hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Stem(tt.path))
		})
	}
}
