package fsops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealFS_EnsureDir(t *testing.T) {
	fs := NewRealFS()

	tests := []struct {
		name    string
		setup   func(t *testing.T, root string) string
		wantDir bool
		wantErr bool
	}{
		{
			name: "creates nested missing ancestors",
			setup: func(t *testing.T, root string) string {
				return filepath.Join(root, "a", "b", "c", "d")
			},
			wantDir: true,
		},
		{
			name: "existing directory is tolerated",
			setup: func(t *testing.T, root string) string {
				dir := filepath.Join(root, "existing")
				require.NoError(t, os.Mkdir(dir, 0755))
				return dir
			},
			wantDir: true,
		},
		{
			name: "trailing separator is cleaned",
			setup: func(t *testing.T, root string) string {
				return filepath.Join(root, "x", "y") + string(filepath.Separator)
			},
			wantDir: true,
		},
		{
			name: "target is a regular file",
			setup: func(t *testing.T, root string) string {
				file := filepath.Join(root, "file")
				require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
				return file
			},
			wantErr: true,
		},
		{
			name: "ancestor is a regular file",
			setup: func(t *testing.T, root string) string {
				file := filepath.Join(root, "blocker")
				require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
				return filepath.Join(file, "child", "grandchild")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := tt.setup(t, t.TempDir())

			ok, err := fs.EnsureDir(target, 0755)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDir, ok)

			info, err := os.Stat(target)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		})
	}
}

func TestRealFS_EnsureDir_Idempotent(t *testing.T) {
	fs := NewRealFS()
	target := filepath.Join(t.TempDir(), "one", "two")

	for i := 0; i < 3; i++ {
		ok, err := fs.EnsureDir(target, 0755)
		require.NoError(t, err, "iteration %d", i)
		assert.True(t, ok, "iteration %d", i)
	}
}

func TestRealFS_EnsureDir_Empty(t *testing.T) {
	ok, err := NewRealFS().EnsureDir("", 0755)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRealFS_AtomicWrite(t *testing.T) {
	fs := NewRealFS()
	path := filepath.Join(t.TempDir(), "nested", "meta.json")

	require.NoError(t, fs.AtomicWrite(path, []byte("first"), 0644))
	require.NoError(t, fs.AtomicWrite(path, []byte("second"), 0644))

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRealFS_Exists(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()
	file := filepath.Join(dir, "present")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	exists, err := fs.Exists(file)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = fs.Exists(filepath.Join(dir, "absent"))
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, os.Remove(file))
	exists, err = fs.Exists(file)
	require.NoError(t, err)
	assert.False(t, exists)
}
