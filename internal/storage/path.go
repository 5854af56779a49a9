package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
)

// MetaFile is written into each workspace storage directory.
const MetaFile = "meta.json"

// workspaceMeta records which workspace a storage directory belongs to.
// Nothing reads it back; it exists for diagnostics and recovery.
type workspaceMeta struct {
	WorkspacePath string `json:"workspacePath"`
	UID           *int64 `json:"uid"`
}

// StoragePath returns the directory for scope. The global path is the
// settings home. The workspace path lives under the workspace storage home and
// is derived once from a digest of the
// workspace location and uid, created on disk, and cached; if creating it
// fails, every call on this Storage reports no path.
func (s *Storage) StoragePath(scope Scope) (string, bool) {
	switch scope {
	case Global:
		return s.appSettingsHome, s.appSettingsHome != ""
	case Workspace:
		if s.workspace == nil {
			return "", false
		}
		if !s.pathResolved {
			s.workspacePath, s.workspaceOK = s.resolveWorkspacePath()
			s.pathResolved = true
		}
		return s.workspacePath, s.workspaceOK
	default:
		panic(fmt.Sprintf("storage: %v %d", ErrInvalidScope, int(scope)))
	}
}

// resolveWorkspacePath computes and creates the workspace directory.
func (s *Storage) resolveWorkspacePath() (string, bool) {
	if s.workspaceStorageHome == "" {
		s.log.Warn().Msg("No workspace storage home configured, workspace storage path unavailable")
		return "", false
	}

	location := s.workspace.FSPath()
	parts := []string{location}
	if s.workspace.HasUID() {
		parts = append(parts, strconv.FormatInt(*s.workspace.UID, 10))
	}
	dir := filepath.Join(s.workspaceStorageHome, s.hasher.Sum(parts...))

	ok, err := s.fs.EnsureDir(dir, 0755)
	if err != nil || !ok {
		s.log.Warn().
			Err(err).
			Str("path", dir).
			Msg("Failed to create workspace storage directory")
		return "", false
	}

	s.writeMeta(dir, location)
	return dir, true
}

// writeMeta writes meta.json unless it already exists. Failures are logged;
// the directory stays usable without it.
func (s *Storage) writeMeta(dir, location string) {
	metaPath := filepath.Join(dir, MetaFile)

	exists, err := s.fs.Exists(metaPath)
	if err != nil {
		s.log.Warn().Err(err).Str("path", metaPath).Msg("Failed to check workspace metadata")
		return
	}
	if exists {
		return
	}

	data, err := json.MarshalIndent(workspaceMeta{
		WorkspacePath: location,
		UID:           s.workspace.UID,
	}, "", "    ")
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to marshal workspace metadata")
		return
	}

	if err := s.fs.AtomicWrite(metaPath, data, 0644); err != nil {
		s.log.Warn().Err(err).Str("path", metaPath).Msg("Failed to write workspace metadata")
	}
}
