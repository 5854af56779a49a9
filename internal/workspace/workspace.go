// Package workspace describes the workspace a storage instance is bound to.
//
// A workspace is identified by its location, a URI-like string, and an
// optional numeric uid. The location determines the key namespace used for
// workspace-scoped entries; the uid only detects that a workspace was deleted
// and recreated at the same location.
package workspace

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// FileScheme prefixes locations that refer to local directories.
	FileScheme = "file://"

	// NoWorkspaceNamespace is the namespace used when no workspace is open.
	NoWorkspaceNamespace = "__$noWorkspace__"

	fileRoot = "file:///"
)

// ErrNotDirectory indicates a workspace location that is not a directory.
var ErrNotDirectory = errors.New("workspace is not a directory")

// Descriptor identifies an open workspace.
type Descriptor struct {
	// Location is the workspace URI, e.g. file:///home/me/project.
	Location string `json:"location"`

	// UID distinguishes successive workspaces created at the same location.
	// Nil when the host cannot provide one.
	UID *int64 `json:"uid"`
}

// FromLocation creates a Descriptor for an arbitrary location.
func FromLocation(location string, uid *int64) *Descriptor {
	return &Descriptor{Location: location, UID: uid}
}

// FromDirectory creates a Descriptor for a local directory. The uid is
// derived from the directory's filesystem identity where the platform
// exposes one, so a directory that is removed and recreated yields a new uid.
func FromDirectory(dir string) (*Descriptor, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat workspace: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}

	d := &Descriptor{Location: FileURI(abs)}
	if uid, ok := directoryUID(info); ok {
		d.UID = &uid
	}
	return d, nil
}

// FileURI converts an absolute filesystem path to a file:// URI.
func FileURI(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}

// HasUID reports whether the descriptor carries a uid.
func (d *Descriptor) HasUID() bool {
	return d != nil && d.UID != nil
}

// FSPath returns the filesystem path for file:// locations and the raw
// location otherwise.
func (d *Descriptor) FSPath() string {
	if !strings.HasPrefix(d.Location, FileScheme) {
		return d.Location
	}
	u, err := url.Parse(d.Location)
	if err != nil {
		return strings.TrimPrefix(d.Location, FileScheme)
	}
	p := u.Path
	// file:///C:/dir -> C:/dir
	if runtime.GOOS == "windows" && len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p)
}

// NamespaceKey derives the key namespace for d.
//
// Locations under file:/// map to the remainder of the URI with exactly one
// trailing slash, so file:///a/b and file:///a/b/ share a namespace. Any
// other location is used verbatim. A nil descriptor maps to
// NoWorkspaceNamespace.
func NamespaceKey(d *Descriptor) string {
	if d == nil || d.Location == "" {
		return NoWorkspaceNamespace
	}
	if strings.HasPrefix(d.Location, fileRoot) {
		return strings.TrimRight(strings.TrimPrefix(d.Location, fileRoot), "/") + "/"
	}
	return d.Location
}
