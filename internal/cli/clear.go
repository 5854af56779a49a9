package cli

import (
	"fmt"

	"github.com/danieljhkim/scopekv/internal/storage"
	"github.com/spf13/cobra"
)

var clearForce bool

// clearCmd removes every stored key.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every key in every scope",
	Long: `Remove every key from the backing stores.

This wipes both scopes and every workspace namespace, not only the workspace
selected with --workspace. Because it cannot be undone, --force is required.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		if !clearForce {
			return fmt.Errorf("clear removes every stored key; re-run with --force to proceed")
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

		globalCount := len(sess.storage.Keys(storage.Global))
		sess.storage.Clear()
		if err := sess.sink.first(); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), map[string]interface{}{
				"cleared":     true,
				"globalCount": globalCount,
			})
		}

		PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Cleared storage (%s in global scope)", PrintCount(globalCount, "key", "keys")))
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearForce, "force", false, "Confirm removal of every stored key")
}
