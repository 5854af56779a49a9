//go:build !unix

package workspace

import "os"

// directoryUID is unavailable on this platform; such workspaces have no uid.
func directoryUID(info os.FileInfo) (int64, bool) {
	return 0, false
}
