package cli

import (
	"fmt"
	"strconv"

	"github.com/danieljhkim/scopekv/internal/storage"
	"github.com/spf13/cobra"
)

// workspaceInfo is the JSON shape of workspace.
type workspaceInfo struct {
	Open        bool    `json:"open"`
	Location    string  `json:"location,omitempty"`
	FSPath      string  `json:"fsPath,omitempty"`
	UID         *int64  `json:"uid"`
	Namespace   string  `json:"namespace"`
	StoragePath *string `json:"storagePath"`
	KeyCount    int     `json:"keyCount"`
}

// workspaceCmd describes the workspace selected by --workspace.
var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Show how the selected workspace is identified",
	Long: `Show the location, uid, namespace, and storage directory of the workspace
selected with --workspace.

Opening the workspace runs the recreate check: if the recorded uid differs from
the current one, stale workspace keys are removed before anything is shown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sess, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := sess.Close(); err == nil {
				err = closeErr
			}
		}()

		desc := sess.storage.Workspace()
		info := workspaceInfo{
			Open:      desc != nil,
			Namespace: sess.storage.NamespaceKey(),
			KeyCount:  len(sess.storage.Keys(storage.Workspace)),
		}
		if desc != nil {
			info.Location = desc.Location
			info.FSPath = desc.FSPath()
			info.UID = desc.UID
		}
		if dir, ok := sess.storage.StoragePath(storage.Workspace); ok {
			info.StoragePath = &dir
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), info)
		}

		out := cmd.OutOrStdout()
		PrintSection(out, "Workspace")
		if !info.Open {
			PrintEmptyState(out, "No workspace open; workspace keys use the shared fallback namespace")
			PrintLabelValue(out, "Namespace", info.Namespace)
			PrintLabelValue(out, "Keys", strconv.Itoa(info.KeyCount))
			return nil
		}

		PrintLabelValue(out, "Location", info.Location)
		PrintLabelValue(out, "Path", info.FSPath)
		uid := "(none)"
		if info.UID != nil {
			uid = strconv.FormatInt(*info.UID, 10)
		}
		PrintLabelValue(out, "UID", uid)
		PrintLabelValue(out, "Namespace", info.Namespace)
		PrintLabelValue(out, "Keys", strconv.Itoa(info.KeyCount))
		if info.StoragePath != nil {
			PrintLabelValue(out, "Storage", *info.StoragePath)
		} else {
			PrintWarning(out, fmt.Sprintf("Storage directory unavailable for %s", info.Location))
		}
		return nil
	},
}
