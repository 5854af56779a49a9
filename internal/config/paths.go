// Package config manages scopekv configuration and filesystem paths.
//
// The default root is ~/.scopekv/ (the application settings home). It holds
// the backing-store files, the workspaceStorage/ directory with one
// hash-named directory per workspace, and an optional config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/scopekv/internal/kvstore"
)

// WorkspaceStorageDir is the directory under the settings home that holds
// per-workspace storage directories.
const WorkspaceStorageDir = "workspaceStorage"

// Paths contains all the filesystem paths used by scopekv.
type Paths struct {
	// AppSettingsHome is the base directory for all scopekv data (default: ~/.scopekv)
	AppSettingsHome string

	// WorkspaceStorage is the directory containing per-workspace directories
	WorkspaceStorage string

	// GlobalStore is the backing-store file for global (and, by default, workspace) keys
	GlobalStore string

	// WorkspaceStore is the backing-store file used when workspace keys are kept separately
	WorkspaceStore string

	// Config is the path to the settings file
	Config string
}

// DefaultPaths returns the default paths for scopekv.
// Paths can be overridden with environment variables:
// - SCOPEKV_HOME: Override the settings home directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("SCOPEKV_HOME")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".scopekv")
	}

	return PathsAt(root), nil
}

// PathsAt returns the paths rooted at root.
func PathsAt(root string) *Paths {
	return &Paths{
		AppSettingsHome:  root,
		WorkspaceStorage: filepath.Join(root, WorkspaceStorageDir),
		GlobalStore:      filepath.Join(root, "global.db"),
		WorkspaceStore:   filepath.Join(root, "workspace.db"),
		Config:           filepath.Join(root, "config.yaml"),
	}
}

// StoreFile returns the backing-store file for backend, adjusting the
// extension for the JSON backend.
func (p *Paths) StoreFile(base, backend string) string {
	if backend == kvstore.BackendJSON {
		return base[:len(base)-len(filepath.Ext(base))] + ".json"
	}
	return base
}

// EnsureDirectories creates the settings home if it doesn't exist.
// Workspace directories are created on demand by the storage layer.
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.AppSettingsHome, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.AppSettingsHome, err)
	}
	return nil
}
