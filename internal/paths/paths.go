// Package paths resolves the program's on-disk locations: where
// persistent configuration (including tasks) lives, and where ephemeral
// UI state and the instance lock file live.
package paths

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "notnow"

// UIConfigFile is the file name of the program's UI configuration
// document, relative to UIConfigDir.
const UIConfigFile = "notnow.json"

// UIStateFile is the file name of the program's volatile UI state
// document, relative to UIStateDir.
const UIStateFile = "ui-state.json"

// LockFileName is the file name of the program's instance lock file,
// relative to UIStateDir.
const LockFileName = "notnow.lock"

// Paths resolves the program's configuration and state directories.
type Paths struct {
	configDir string
	stateDir  string
}

// New resolves a Paths object. If configDir is non-empty it overrides the
// default configuration directory; otherwise the platform's XDG config
// base directory is used.
func New(configDir string) (Paths, error) {
	dir := configDir
	if dir == "" {
		dir = filepath.Join(xdg.ConfigHome, appName)
	}
	return Paths{
		configDir: dir,
		stateDir:  filepath.Join(xdg.CacheHome, appName),
	}, nil
}

// UIConfigDir returns the path to the program's configuration directory.
func (p Paths) UIConfigDir() string { return p.configDir }

// TasksDir returns the path to the directory holding individual task
// documents.
func (p Paths) TasksDir() string { return filepath.Join(p.configDir, "tasks") }

// UIStateDir returns the path to the program's volatile UI state
// directory.
func (p Paths) UIStateDir() string { return p.stateDir }

// LockFile returns the path to the program's instance lock file.
func (p Paths) LockFile() string { return filepath.Join(p.stateDir, LockFileName) }
