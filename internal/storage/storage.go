// Package storage provides XDG-compliant storage path management for renameiso.
package storage

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/alocalareanetwork/renameiso/internal/constants"
	"github.com/spf13/afero"
)

// Manager handles storage operations with filesystem abstraction
type Manager struct {
	fs      afero.Fs
	dataDir string
}

// New creates a new storage manager with the given filesystem
func New(fs afero.Fs) *Manager {
	return &Manager{fs: fs}
}

// NewWithDataDir creates a storage manager rooted at dataDir instead of the
// XDG data directory. An empty dataDir behaves like New.
func NewWithDataDir(fs afero.Fs, dataDir string) *Manager {
	return &Manager{fs: fs, dataDir: dataDir}
}

// GetDataDir returns the data directory for renameiso, creating it if necessary
func (m *Manager) GetDataDir() (string, error) {
	dataDir := m.dataDir
	if dataDir == "" {
		dataDir = filepath.Join(xdg.DataHome, constants.AppName)
	}
	err := m.fs.MkdirAll(dataDir, 0o750)
	if err != nil {
		return "", fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	return dataDir, nil
}

// GetJournalPath returns the full path to the rename journal database
func (m *Manager) GetJournalPath() (string, error) {
	return m.dataFile(constants.JournalFilename)
}

// GetLockPath returns the full path to the run lock file
func (m *Manager) GetLockPath() (string, error) {
	return m.dataFile(constants.LockFilename)
}

// GetConfigPath returns the default config file location. It is not created.
func (*Manager) GetConfigPath() string {
	return filepath.Join(xdg.ConfigHome, constants.AppName, constants.ConfigFilename)
}

func (m *Manager) dataFile(name string) (string, error) {
	dataDir, err := m.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, name), nil
}
