// Package constants contains names and extensions shared across renameiso.
package constants

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "renameiso"

	// JournalFilename is the SQLite database recording performed renames.
	JournalFilename = "journal.db"

	// LockFilename guards against two runs mutating a tree at the same time.
	LockFilename = "renameiso.lock"

	// ConfigFilename is the config file looked up in the XDG config directory.
	ConfigFilename = "config.yml"
)

// File extensions matched by exact, case-sensitive suffix.
const (
	// ImageExtension identifies disc-image files.
	ImageExtension = ".iso"

	// ManifestExtension identifies checksum manifests whose stem is the canonical name.
	ManifestExtension = ".sfv"
)
