package config

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ImageExtension    string `yaml:"image_extension" mapstructure:"image_extension"`
	ManifestExtension string `yaml:"manifest_extension" mapstructure:"manifest_extension"`
	// StateDir overrides the XDG data directory holding the journal and run lock.
	StateDir string        `yaml:"state_dir,omitempty" mapstructure:"state_dir"`
	Journal  JournalConfig `yaml:"journal" mapstructure:"journal"`
	Logging  LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Resume   bool          `yaml:"resume" mapstructure:"resume"`
}

type JournalConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

type LoggingConfig struct {
	// File appends diagnostics to a rotating log file when set.
	File string `yaml:"file,omitempty" mapstructure:"file"`
}

func Load(path string) (*Config, error) {
	viperInstance := newViper()
	viperInstance.SetConfigFile(path)

	if err := viperInstance.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return unmarshal(viperInstance)
}

// LoadFromYAML loads config from YAML bytes - helper for tests
func LoadFromYAML(data []byte) (*Config, error) {
	viperInstance := newViper()
	viperInstance.SetConfigType("yaml")

	if err := viperInstance.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return unmarshal(viperInstance)
}

// newViper returns a viper instance seeded with DefaultConfig so keys absent
// from the file keep their default values.
func newViper() *viper.Viper {
	defaults := DefaultConfig()
	viperInstance := viper.New()
	viperInstance.SetDefault("image_extension", defaults.ImageExtension)
	viperInstance.SetDefault("manifest_extension", defaults.ManifestExtension)
	viperInstance.SetDefault("resume", defaults.Resume)
	viperInstance.SetDefault("journal.enabled", defaults.Journal.Enabled)
	viperInstance.SetDefault("state_dir", defaults.StateDir)
	viperInstance.SetDefault("logging.file", defaults.Logging.File)
	return viperInstance
}

// YAML marshals the config in the same shape Load reads.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	return data, nil
}

func unmarshal(viperInstance *viper.Viper) (*Config, error) {
	var config Config
	if err := viperInstance.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate checks the extensions are usable as exact suffixes
func (c *Config) Validate() error {
	if err := validateExtension("image_extension", c.ImageExtension); err != nil {
		return err
	}
	if err := validateExtension("manifest_extension", c.ManifestExtension); err != nil {
		return err
	}
	if c.ImageExtension == c.ManifestExtension {
		return errors.New("image_extension and manifest_extension must differ")
	}
	return nil
}

func validateExtension(field, ext string) error {
	if ext == "" {
		return fmt.Errorf("%s is required and cannot be empty", field)
	}
	if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
		return fmt.Errorf("invalid %s '%s': must start with '.' followed by a name", field, ext)
	}
	if strings.ContainsAny(ext, `/\`) {
		return fmt.Errorf("invalid %s '%s': must not contain path separators", field, ext)
	}
	return nil
}
