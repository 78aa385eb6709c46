package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "config.yml")

	yamlContent := `image_extension: ".img"
manifest_extension: ".md5"
resume: true
state_dir: "/tmp/renameiso"
journal:
  enabled: false
logging:
  file: "/tmp/renameiso.log"
`

	err := os.WriteFile(configFile, []byte(yamlContent), 0o600)
	require.NoError(t, err)

	config, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, ".img", config.ImageExtension)
	assert.Equal(t, ".md5", config.ManifestExtension)
	assert.True(t, config.Resume)
	assert.False(t, config.Journal.Enabled)
	assert.Equal(t, "/tmp/renameiso", config.StateDir)
	assert.Equal(t, "/tmp/renameiso.log", config.Logging.File)
}

func TestLoadConfig_MissingKeysKeepDefaults(t *testing.T) {
	t.Parallel()

	config, err := LoadFromYAML([]byte("resume: true\n"))
	require.NoError(t, err)

	assert.Equal(t, ".iso", config.ImageExtension)
	assert.Equal(t, ".sfv", config.ManifestExtension)
	assert.True(t, config.Journal.Enabled)
	assert.True(t, config.Resume)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := LoadFromYAML([]byte("image_extension: [unclosed\n"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "empty image extension", yaml: `image_extension: ""`, wantErr: "image_extension is required"},
		{name: "missing dot", yaml: `image_extension: "iso"`, wantErr: "must start with '.'"},
		{name: "dot only", yaml: `manifest_extension: "."`, wantErr: "must start with '.'"},
		{name: "separator", yaml: `manifest_extension: ".a/b"`, wantErr: "path separators"},
		{name: "same extensions", yaml: "image_extension: \".sfv\"", wantErr: "must differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadFromYAML([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigYAML_RoundTrips(t *testing.T) {
	t.Parallel()

	data, err := DefaultConfig().YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "image_extension:")
	assert.Contains(t, string(data), ".sfv")

	config, err := LoadFromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}
