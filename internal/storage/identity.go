package storage

import (
	"strings"

	"github.com/danieljhkim/scopekv/internal/kvstore"
)

// WorkspaceIdentifierKey is the reserved workspace key holding the uid of
// the workspace that last used this namespace.
const WorkspaceIdentifierKey = "workspaceIdentifier"

// checkWorkspaceIdentity purges this namespace when the recorded uid differs
// from uid, then records uid. Without a recorded uid nothing is purged.
func (s *Storage) checkWorkspaceIdentity(uid int64) {
	previous, hasPrevious := s.previousWorkspaceUID()

	if hasPrevious && previous != uid {
		s.purgeNamespace(previous, uid)
	}

	if !hasPrevious || previous != uid {
		s.Store(WorkspaceIdentifierKey, uid, Workspace)
	}
}

// previousWorkspaceUID reads the recorded uid. An unparsable marker counts
// as no marker.
func (s *Storage) previousWorkspaceUID() (int64, bool) {
	raw, found := s.Lookup(WorkspaceIdentifierKey, Workspace)
	if !found {
		return 0, false
	}

	uid, ok := parseInteger(raw)
	if !ok {
		s.log.Warn().
			Str("namespace", s.namespaceKey).
			Str("marker", raw).
			Msg("Ignoring malformed workspace identifier")
		return 0, false
	}
	return uid, true
}

// purgeNamespace removes every workspace-prefixed key in this namespace.
// Keys outside the workspace prefix belong to other consumers of the store
// and are never touched. A failed removal does not stop the others.
func (s *Storage) purgeNamespace(previous, current int64) {
	var removed, failed int

	for _, key := range kvstore.Keys(s.workspaceStore) {
		if !strings.HasPrefix(key, WorkspacePrefix) {
			continue
		}
		if !strings.HasPrefix(key[len(WorkspacePrefix):], s.namespaceKey) {
			continue
		}

		if err := s.workspaceStore.Remove(key); err != nil {
			failed++
			s.log.Warn().
				Err(err).
				Str("key", key).
				Msg("Failed to remove stale workspace entry")
			continue
		}
		removed++
	}

	s.log.Info().
		Str("namespace", s.namespaceKey).
		Int64("previousUID", previous).
		Int64("uid", current).
		Int("removed", removed).
		Int("failed", failed).
		Msg("Workspace recreated at same location, removed stale entries")
}
