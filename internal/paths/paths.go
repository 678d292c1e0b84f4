package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	daemonName = "xmaked"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory for runtime files (PIDs).
//
//	Linux:   $XDG_RUNTIME_DIR/xmaked or /run/user/<uid>/xmaked
//	macOS:   ~/Library/Caches/xmaked/run
func Runtime() string {
	if xdg.RuntimeDir != "" {
		return filepath.Join(xdg.RuntimeDir, daemonName)
	}
	return filepath.Join(xdg.CacheHome, daemonName, "run")
}

// Default path to the PID file.
//
//	Linux:   $XDG_RUNTIME_DIR/xmaked/xmaked.pid
//	macOS:   ~/Library/Caches/xmaked/run/xmaked.pid
func PIDFile() string {
	return filepath.Join(Runtime(), daemonName+".pid")
}

// Default path to the persisted daemon configuration file.
//
//	Linux:   ~/.config/xmaked/service.yaml
//	macOS:   ~/Library/Application Support/xmaked/service.yaml
func ConfigFile() string {
	return filepath.Join(xdg.ConfigHome, daemonName, "service.yaml")
}

// Default root directory for remote build session workspaces.
//
//	Linux:   ~/.local/share/xmaked/workspaces
//	macOS:   ~/Library/Application Support/xmaked/workspaces
func Workspaces() string {
	return filepath.Join(xdg.DataHome, daemonName, "workspaces")
}
