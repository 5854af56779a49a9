package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// RootMarker is the entry whose presence marks a directory as a workspace root.
const RootMarker = ".git"

// ErrNoRoot is returned when no enclosing workspace root exists.
var ErrNoRoot = errors.New("no enclosing workspace root")

// DiscoverRoot walks up from dir to the nearest directory containing
// RootMarker. The marker may be a directory or a file (worktrees, submodules).
func DiscoverRoot(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		if info, err := os.Stat(filepath.Join(current, RootMarker)); err == nil {
			if info.IsDir() || info.Mode().IsRegular() {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%w above %s", ErrNoRoot, dir)
		}
		current = parent
	}
}

// Discover returns the Descriptor of the workspace root enclosing dir.
func Discover(dir string) (*Descriptor, error) {
	root, err := DiscoverRoot(dir)
	if err != nil {
		return nil, err
	}
	return FromDirectory(root)
}
