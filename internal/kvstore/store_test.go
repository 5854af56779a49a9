package kvstore

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/danieljhkim/scopekv/internal/fsops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingFS reads from disk but refuses to write.
type failingFS struct {
	*fsops.RealFS
}

func (f failingFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	return errors.New("disk full")
}

func storeFactories(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"json": func(t *testing.T) Store {
			s, err := OpenFileStore(fsops.NewRealFS(), filepath.Join(t.TempDir(), "store.json"))
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "store.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func TestStoreContract(t *testing.T) {
	for name, open := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("empty store", func(t *testing.T) {
				s := open(t)
				assert.Equal(t, 0, s.Len())
				_, ok := s.Key(0)
				assert.False(t, ok)
				_, ok = s.Get("missing")
				assert.False(t, ok)
			})

			t.Run("set get overwrite", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Set("a", "1"))
				require.NoError(t, s.Set("a", "2"))

				got, ok := s.Get("a")
				assert.True(t, ok)
				assert.Equal(t, "2", got)
				assert.Equal(t, 1, s.Len())
			})

			t.Run("empty value is stored", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Set("a", ""))
				got, ok := s.Get("a")
				assert.True(t, ok)
				assert.Equal(t, "", got)
			})

			t.Run("enumerate keys", func(t *testing.T) {
				s := open(t)
				for _, k := range []string{"x", "y", "z"} {
					require.NoError(t, s.Set(k, k))
				}

				keys := Keys(s)
				sort.Strings(keys)
				assert.Equal(t, []string{"x", "y", "z"}, keys)

				_, ok := s.Key(-1)
				assert.False(t, ok)
				_, ok = s.Key(3)
				assert.False(t, ok)
			})

			t.Run("remove", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Set("a", "1"))
				require.NoError(t, s.Set("b", "2"))
				require.NoError(t, s.Set("c", "3"))

				require.NoError(t, s.Remove("a"))
				require.NoError(t, s.Remove("absent"))

				_, ok := s.Get("a")
				assert.False(t, ok)
				keys := Keys(s)
				sort.Strings(keys)
				assert.Equal(t, []string{"b", "c"}, keys)
			})

			t.Run("clear", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Set("a", "1"))
				require.NoError(t, s.Set("b", "2"))

				require.NoError(t, s.Clear())
				assert.Equal(t, 0, s.Len())
				_, ok := s.Get("a")
				assert.False(t, ok)
			})
		})
	}
}

func TestFileStore_PersistsAcrossOpen(t *testing.T) {
	fs := fsops.NewRealFS()
	path := filepath.Join(t.TempDir(), "nested", "store.json")

	s, err := OpenFileStore(fs, path)
	require.NoError(t, err)
	require.NoError(t, s.Set("storage://global/theme", "dark"))
	require.NoError(t, s.Set("storage://global/zoom", "2"))
	require.NoError(t, s.Remove("storage://global/zoom"))

	reopened, err := OpenFileStore(fs, path)
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Len())
	got, ok := reopened.Get("storage://global/theme")
	assert.True(t, ok)
	assert.Equal(t, "dark", got)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := OpenFileStore(fsops.NewRealFS(), path)
	assert.Error(t, err)
}

func TestFileStore_WriteFailureRollsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"kept":"v"}`), 0644))

	s, err := OpenFileStore(failingFS{fsops.NewRealFS()}, path)
	require.NoError(t, err)

	assert.Error(t, s.Set("new", "x"))
	_, ok := s.Get("new")
	assert.False(t, ok)

	assert.Error(t, s.Set("kept", "changed"))
	got, _ := s.Get("kept")
	assert.Equal(t, "v", got)

	assert.Error(t, s.Remove("kept"))
	_, ok = s.Get("kept")
	assert.True(t, ok)

	assert.Error(t, s.Clear())
	assert.Equal(t, 1, s.Len())
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	s, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("k1", "v1"))
	require.NoError(t, s.Set("k2", "v2"))
	require.NoError(t, s.Remove("k2"))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 1, reopened.Len())
	got, ok := reopened.Get("k1")
	assert.True(t, ok)
	assert.Equal(t, "v1", got)
}

func TestSQLiteStore_Closed(t *testing.T) {
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Set("k", "v"), ErrClosed)
	assert.ErrorIs(t, s.Remove("k"), ErrClosed)
	assert.ErrorIs(t, s.Clear(), ErrClosed)

	var nilStore *SQLiteStore
	assert.NoError(t, nilStore.Close())
}

func TestOpenSQLiteStore_EmptyPath(t *testing.T) {
	_, err := OpenSQLiteStore("  ")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	fs := fsops.NewRealFS()
	dir := t.TempDir()

	tests := []struct {
		backend string
		path    string
		want    interface{}
		wantErr error
	}{
		{backend: BackendMemory, want: &MemoryStore{}},
		{backend: BackendJSON, path: filepath.Join(dir, "s.json"), want: &FileStore{}},
		{backend: BackendSQLite, path: filepath.Join(dir, "s.db"), want: &SQLiteStore{}},
		{backend: "redis", wantErr: ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			store, closeFn, err := Open(tt.backend, tt.path, fs)
			require.NotNil(t, closeFn)
			defer closeFn()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, store)
		})
	}
}
