package storage

import (
	"fmt"
	"strings"
)

// Scope selects which backing store and key namespace a logical key maps to.
type Scope int

const (
	// Global keys live in one process-wide namespace.
	Global Scope = iota

	// Workspace keys are namespaced by the open workspace's location.
	Workspace
)

// Physical key prefixes. These are a stable on-disk contract.
const (
	commonPrefix    = "storage://"
	GlobalPrefix    = commonPrefix + "global/"
	WorkspacePrefix = commonPrefix + "workspace/"
)

// String returns the scope name.
func (s Scope) String() string {
	switch s {
	case Global:
		return "global"
	case Workspace:
		return "workspace"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// ParseScope converts a scope name to a Scope.
func ParseScope(name string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "global", "":
		return Global, nil
	case "workspace":
		return Workspace, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidScope, name)
	}
}
