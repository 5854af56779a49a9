package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// pathCmd prints the storage directory of a scope.
var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the storage directory of a scope",
	Long: `Print the storage directory of the selected scope.

The global scope resolves to the application settings home. The workspace
scope resolves to a per-workspace directory under workspaceStorage/, which is
created on first use together with a meta.json describing the workspace.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		scope, err := selectedScope()
		if err != nil {
			return err
		}

		sess, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := sess.Close(); err == nil {
				err = closeErr
			}
		}()

		dir, ok := sess.storage.StoragePath(scope)
		if jsonOutput {
			result := map[string]interface{}{
				"scope": scope.String(),
				"path":  nil,
			}
			if ok {
				result["path"] = dir
			}
			return outputJSON(cmd.OutOrStdout(), result)
		}

		if !ok {
			return fmt.Errorf("no storage path available for %s scope", scope)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), dir)
		return nil
	},
}
