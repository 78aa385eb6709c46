package config

import (
	"github.com/alocalareanetwork/renameiso/internal/constants"
)

// DefaultConfig returns the default renameiso configuration
func DefaultConfig() *Config {
	return &Config{
		ImageExtension:    constants.ImageExtension,
		ManifestExtension: constants.ManifestExtension,
		Journal: JournalConfig{
			Enabled: true,
		},
	}
}
