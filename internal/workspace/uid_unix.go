//go:build unix

package workspace

import (
	"os"
	"syscall"
)

// directoryUID returns the inode number of the directory.
func directoryUID(info os.FileInfo) (int64, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return int64(st.Ino), true
}
