package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// rmCmd removes keys.
var rmCmd = &cobra.Command{
	Use:   "rm <key>...",
	Short: "Remove one or more keys",
	Long: `Remove one or more keys from the selected scope.

Removing a key that does not exist is not an error.`,
	Args: cobra.MinimumNArgs(1),
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

		removed := make([]string, 0, len(args))
		for _, key := range args {
			if _, found := sess.storage.Lookup(key, scope); found {
				removed = append(removed, key)
			}
			sess.storage.Remove(key, scope)
		}
		if err := sess.sink.first(); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), map[string]interface{}{
				"scope":   scope.String(),
				"removed": removed,
			})
		}

		if len(removed) == 0 {
			PrintEmptyState(cmd.OutOrStdout(), "No matching keys")
			return nil
		}
		PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Removed %s (%s scope)", PrintCount(len(removed), "key", "keys"), scope))
		return nil
	},
}
