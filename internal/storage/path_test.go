package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/danieljhkim/scopekv/internal/hash"
	"github.com/danieljhkim/scopekv/internal/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoragePath_Global(t *testing.T) {
	home := t.TempDir()
	s := New(kvstore.NewMemoryStore(), Options{AppSettingsHome: home})

	got, ok := s.StoragePath(Global)
	assert.True(t, ok)
	assert.Equal(t, home, got)

	_, ok = New(kvstore.NewMemoryStore(), Options{}).StoragePath(Global)
	assert.False(t, ok)
}

func TestStoragePath_NoWorkspace(t *testing.T) {
	s := New(kvstore.NewMemoryStore(), Options{AppSettingsHome: t.TempDir()})

	got, ok := s.StoragePath(Workspace)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestStoragePath_Workspace(t *testing.T) {
	home := t.TempDir()
	desc := projectAt("file:///srv/projects/api", uid(7))
	s := New(kvstore.NewMemoryStore(), Options{AppSettingsHome: home, Workspace: desc})

	got, ok := s.StoragePath(Workspace)
	require.True(t, ok)

	digest := hash.NewSHA256Hasher().Sum(desc.FSPath(), "7")
	assert.Equal(t, filepath.Join(home, "workspaceStorage", digest), got)

	info, err := os.Stat(got)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	data, err := os.ReadFile(filepath.Join(got, MetaFile))
	require.NoError(t, err)
	want := "{\n    \"workspacePath\": " + mustJSON(t, desc.FSPath()) + ",\n    \"uid\": 7\n}"
	assert.Equal(t, want, string(data))
}

func TestStoragePath_WorkspaceWithoutUID(t *testing.T) {
	home := t.TempDir()
	desc := projectAt("file:///srv/projects/api", nil)
	s := New(kvstore.NewMemoryStore(), Options{AppSettingsHome: home, Workspace: desc})

	got, ok := s.StoragePath(Workspace)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(home, "workspaceStorage", hash.NewSHA256Hasher().Sum(desc.FSPath())), got)

	var meta map[string]interface{}
	data, err := os.ReadFile(filepath.Join(got, MetaFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Nil(t, meta["uid"])
	assert.Equal(t, desc.FSPath(), meta["workspacePath"])
}

func TestStoragePath_DistinctUIDsGetDistinctDirectories(t *testing.T) {
	home := t.TempDir()
	first := New(kvstore.NewMemoryStore(), Options{AppSettingsHome: home, Workspace: projectAt("file:///w", uid(1))})
	second := New(kvstore.NewMemoryStore(), Options{AppSettingsHome: home, Workspace: projectAt("file:///w", uid(2))})

	a, ok := first.StoragePath(Workspace)
	require.True(t, ok)
	b, ok := second.StoragePath(Workspace)
	require.True(t, ok)
	assert.NotEqual(t, a, b)
}

func TestStoragePath_Memoized(t *testing.T) {
	hasher := hash.NewFakeHasher()
	s := New(kvstore.NewMemoryStore(), Options{
		AppSettingsHome: t.TempDir(),
		Workspace:       projectAt("file:///w", uid(1)),
		Hasher:          hasher,
	})

	first, ok := s.StoragePath(Workspace)
	require.True(t, ok)
	second, ok := s.StoragePath(Workspace)
	require.True(t, ok)

	assert.Equal(t, first, second)
	assert.Equal(t, "fakehash", filepath.Base(first))
	assert.Equal(t, 1, hasher.Calls())
}

func TestStoragePath_ExistingMetaIsKept(t *testing.T) {
	home := t.TempDir()
	hasher := hash.NewFakeHasher()
	dir := filepath.Join(home, "workspaceStorage", "fakehash")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetaFile), []byte("original"), 0644))

	s := New(kvstore.NewMemoryStore(), Options{
		AppSettingsHome: home,
		Workspace:       projectAt("file:///w", uid(1)),
		Hasher:          hasher,
	})

	got, ok := s.StoragePath(Workspace)
	require.True(t, ok)
	assert.Equal(t, dir, got)

	data, err := os.ReadFile(filepath.Join(dir, MetaFile))
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestStoragePath_FailureIsSticky(t *testing.T) {
	root := t.TempDir()
	home := filepath.Join(root, "home")
	// A regular file where the settings home should be blocks directory creation.
	require.NoError(t, os.WriteFile(home, []byte("x"), 0644))

	s := New(kvstore.NewMemoryStore(), Options{
		AppSettingsHome: home,
		Workspace:       projectAt("file:///w", uid(1)),
	})

	_, ok := s.StoragePath(Workspace)
	assert.False(t, ok)

	// Even once creation would succeed, this instance keeps reporting failure.
	require.NoError(t, os.Remove(home))
	_, ok = s.StoragePath(Workspace)
	assert.False(t, ok)

	fresh := New(kvstore.NewMemoryStore(), Options{
		AppSettingsHome: home,
		Workspace:       projectAt("file:///w", uid(1)),
	})
	_, ok = fresh.StoragePath(Workspace)
	assert.True(t, ok)
}

func TestStoragePath_WorkspaceStorageHome(t *testing.T) {
	home := t.TempDir()
	wsHome := filepath.Join(t.TempDir(), "per-workspace")
	s := New(kvstore.NewMemoryStore(), Options{
		AppSettingsHome:      home,
		WorkspaceStorageHome: wsHome,
		Workspace:            projectAt("file:///w", uid(1)),
		Hasher:               hash.NewFakeHasher(),
	})

	got, ok := s.StoragePath(Workspace)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(wsHome, "fakehash"), got)
	assert.NoDirExists(t, filepath.Join(home, "workspaceStorage"))

	global, ok := s.StoragePath(Global)
	require.True(t, ok)
	assert.Equal(t, home, global)
}

func TestStoragePath_NoSettingsHome(t *testing.T) {
	s := New(kvstore.NewMemoryStore(), Options{Workspace: projectAt("file:///w", uid(1))})

	_, ok := s.StoragePath(Workspace)
	assert.False(t, ok)
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
