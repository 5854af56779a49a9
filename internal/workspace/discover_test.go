package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "services", "api")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, RootMarker), 0755))

	tests := []struct {
		name string
		dir  string
	}{
		{"from root", root},
		{"from nested directory", nested},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DiscoverRoot(tt.dir)
			require.NoError(t, err)
			assert.Equal(t, root, got)
		})
	}
}

func TestDiscoverRoot_MarkerFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, RootMarker), []byte("gitdir: elsewhere\n"), 0644))

	got, err := DiscoverRoot(root)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "pkg")
	require.NoError(t, os.Mkdir(nested, 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, RootMarker), 0755))

	d, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, FileURI(root), d.Location)
	assert.Equal(t, root, d.FSPath())
}
