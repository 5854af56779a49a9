// Package storage provides scoped key-value persistence on top of a flat
// string store.
//
// Two scopes share one or two physical stores through key prefixes:
//
//	global:    storage://global/<key>
//	workspace: storage://workspace/<namespace><key>
//
// The namespace is derived from the workspace location, so several
// workspaces can share a physical store. Keys are lowercased before the
// physical key is built, which makes lookups case-insensitive.
//
// When the workspace carries a uid, New compares it with the uid recorded by
// the previous session. A mismatch means the workspace was recreated at the
// same location, and every workspace entry under this namespace is removed
// before New returns.
package storage

import (
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/danieljhkim/scopekv/internal/config"
	"github.com/danieljhkim/scopekv/internal/fsops"
	"github.com/danieljhkim/scopekv/internal/hash"
	"github.com/danieljhkim/scopekv/internal/kvstore"
	"github.com/danieljhkim/scopekv/internal/logger"
	"github.com/danieljhkim/scopekv/internal/workspace"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
)

// ErrorSink receives failures that are deliberately not returned to callers.
type ErrorSink interface {
	Unexpected(err error)
}

// Options configures a Storage. Every field is optional.
type Options struct {
	// WorkspaceStore holds workspace keys. Defaults to the global store.
	WorkspaceStore kvstore.Store

	// Workspace is the open workspace. Nil means no workspace is open.
	Workspace *workspace.Descriptor

	// AppSettingsHome is the global storage path.
	AppSettingsHome string

	// WorkspaceStorageHome holds per-workspace storage directories.
	// Defaults to AppSettingsHome/workspaceStorage.
	WorkspaceStorageHome string

	FS     fsops.FS
	Hasher hash.Hasher
	Errors ErrorSink
	Logger *zerolog.Logger
}

// Storage routes scoped reads and writes to the backing stores.
// It is not safe for concurrent use.
type Storage struct {
	globalStore    kvstore.Store
	workspaceStore kvstore.Store

	workspace       *workspace.Descriptor
	namespaceKey         string
	appSettingsHome      string
	workspaceStorageHome string

	fs     fsops.FS
	hasher hash.Hasher
	errors ErrorSink
	log    zerolog.Logger

	// Memoized workspace storage path; a failure is remembered too.
	pathResolved  bool
	workspacePath string
	workspaceOK   bool
}

// New creates a Storage over global. If the workspace has a uid, stale
// entries left by a previous workspace at the same location are purged
// before New returns. A nil global store panics.
func New(global kvstore.Store, opts Options) *Storage {
	if global == nil {
		panic("storage: global store is required")
	}

	s := &Storage{
		globalStore:     global,
		workspaceStore:  opts.WorkspaceStore,
		workspace:       opts.Workspace,
		namespaceKey:    workspace.NamespaceKey(opts.Workspace),
		appSettingsHome: opts.AppSettingsHome,
		fs:              opts.FS,
		hasher:          opts.Hasher,
		errors:          opts.Errors,
		log:             zerolog.Nop(),
	}
	s.workspaceStorageHome = opts.WorkspaceStorageHome
	if s.workspaceStorageHome == "" && s.appSettingsHome != "" {
		s.workspaceStorageHome = filepath.Join(s.appSettingsHome, config.WorkspaceStorageDir)
	}
	if opts.Logger != nil {
		s.log = *opts.Logger
	}
	if s.workspaceStore == nil {
		s.workspaceStore = global
	}
	if s.fs == nil {
		s.fs = fsops.NewRealFS()
	}
	if s.hasher == nil {
		s.hasher = hash.NewSHA256Hasher()
	}
	if s.errors == nil {
		s.errors = logger.NewErrorSink(s.log)
	}

	if s.workspace.HasUID() {
		s.checkWorkspaceIdentity(*s.workspace.UID)
	}

	return s
}

// NamespaceKey returns the namespace used for workspace keys.
func (s *Storage) NamespaceKey() string {
	return s.namespaceKey
}

// Workspace returns the workspace this storage is bound to, or nil.
func (s *Storage) Workspace() *workspace.Descriptor {
	return s.workspace
}

// storeFor returns the backing store for scope.
func (s *Storage) storeFor(scope Scope) kvstore.Store {
	switch scope {
	case Global:
		return s.globalStore
	case Workspace:
		return s.workspaceStore
	default:
		panic(fmt.Sprintf("storage: %v %d", ErrInvalidScope, int(scope)))
	}
}

// scopePrefix returns everything that precedes the logical key.
func (s *Storage) scopePrefix(scope Scope) string {
	switch scope {
	case Global:
		return GlobalPrefix
	case Workspace:
		return WorkspacePrefix + s.namespaceKey
	default:
		panic(fmt.Sprintf("storage: %v %d", ErrInvalidScope, int(scope)))
	}
}

// PhysicalKey returns the key written to the backing store for key.
func (s *Storage) PhysicalKey(key string, scope Scope) string {
	return s.scopePrefix(scope) + strings.ToLower(key)
}

// Store writes value under key. A nil value removes the key. Values are
// converted to strings; failures are reported to the error sink.
func (s *Storage) Store(key string, value any, scope Scope) {
	if isNil(value) {
		s.Remove(key, scope)
		return
	}

	str, err := toString(value)
	if err != nil {
		s.errors.Unexpected(fmt.Errorf("store %q: %w", key, err))
		return
	}

	if err := s.storeFor(scope).Set(s.PhysicalKey(key, scope), str); err != nil {
		s.errors.Unexpected(fmt.Errorf("store %q in %s scope: %w", key, scope, err))
	}
}

// Lookup returns the value stored under key.
func (s *Storage) Lookup(key string, scope Scope) (string, bool) {
	return s.storeFor(scope).Get(s.PhysicalKey(key, scope))
}

// Get returns the value stored under key, or def.
func (s *Storage) Get(key string, scope Scope, def string) string {
	if value, ok := s.Lookup(key, scope); ok {
		return value
	}
	return def
}

// Remove deletes key. Removing an absent key does nothing.
func (s *Storage) Remove(key string, scope Scope) {
	if err := s.storeFor(scope).Remove(s.PhysicalKey(key, scope)); err != nil {
		s.errors.Unexpected(fmt.Errorf("remove %q from %s scope: %w", key, scope, err))
	}
}

// GetInteger parses the leading base-10 integer of the value under key;
// trailing content such as a unit suffix is ignored. An absent key yields
// def. A value without leading digits yields ok == false.
func (s *Storage) GetInteger(key string, scope Scope, def int64) (n int64, ok bool) {
	value, found := s.Lookup(key, scope)
	if !found {
		return def, true
	}
	return parseInteger(value)
}

// GetBoolean reports whether the value under key is exactly "true".
// An absent key yields def.
func (s *Storage) GetBoolean(key string, scope Scope, def bool) bool {
	value, found := s.Lookup(key, scope)
	if !found {
		return def
	}
	return value == "true"
}

// Swap writes def when key is absent and def is truthy, valueB when the
// stored value equals valueA, and valueA otherwise. Repeated calls alternate
// between valueA and valueB. nil, false, numeric zero and "" are not truthy.
func (s *Storage) Swap(key string, valueA, valueB any, scope Scope, def any) {
	current, found := s.Lookup(key, scope)

	if !found && isTruthy(def) {
		s.Store(key, def, scope)
		return
	}

	a, err := toString(valueA)
	if err != nil {
		s.errors.Unexpected(fmt.Errorf("swap %q: %w", key, err))
		return
	}

	if found && current == a {
		s.Store(key, valueB, scope)
		return
	}
	s.Store(key, a, scope)
}

// Clear removes every key from both backing stores, across all scopes and
// namespaces.
func (s *Storage) Clear() {
	if err := s.globalStore.Clear(); err != nil {
		s.errors.Unexpected(fmt.Errorf("clear global store: %w", err))
	}
	if s.workspaceStore == s.globalStore {
		return
	}
	if err := s.workspaceStore.Clear(); err != nil {
		s.errors.Unexpected(fmt.Errorf("clear workspace store: %w", err))
	}
}

// Keys returns the sorted logical keys stored in scope. For the workspace
// scope only this workspace's namespace is listed.
func (s *Storage) Keys(scope Scope) []string {
	prefix := s.scopePrefix(scope)

	var keys []string
	for _, key := range kvstore.Keys(s.storeFor(scope)) {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key[len(prefix):])
		}
	}
	sort.Strings(keys)
	return keys
}

// parseInteger parses the leading base-10 integer of value after skipping
// leading whitespace. Trailing content is ignored, so "12px" is 12 and "1.5"
// is 1. A value with no leading digits does not parse.
func parseInteger(value string) (int64, bool) {
	trimmed := strings.TrimLeftFunc(value, unicode.IsSpace)

	end := 0
	if end < len(trimmed) && (trimmed[end] == '+' || trimmed[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	n, err := strconv.ParseInt(trimmed[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// isTruthy reports whether a Swap default counts as supplied.
func isTruthy(value any) bool {
	if isNil(value) {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return cast.ToFloat64(v) != 0
	}
	str, err := toString(value)
	return err == nil && str != ""
}

// toString converts a primitive value to its stored form.
func toString(value any) (string, error) {
	str, err := cast.ToStringE(value)
	if err != nil {
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
	}
	return str, nil
}

// isNil reports whether value is nil or a nil pointer.
func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
