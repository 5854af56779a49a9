package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var swapDefault string

// swapCmd toggles a key between two values.
var swapCmd = &cobra.Command{
	Use:   "swap <key> <value-a> <value-b>",
	Short: "Toggle a key between two values",
	Long: `Toggle a key between two values.

If the stored value equals value-a, value-b is stored. Otherwise value-a is
stored. When the key is absent and --default is non-empty, the default is
stored instead.`,
	Args: cobra.ExactArgs(3),
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

		key := args[0]
		var def interface{}
		if swapDefault != "" {
			def = swapDefault
		}
		sess.storage.Swap(key, args[1], args[2], scope, def)
		if err := sess.sink.first(); err != nil {
			return err
		}

		value, _ := sess.storage.Lookup(key, scope)
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), getResult{
				Key:   key,
				Scope: scope.String(),
				Value: value,
				Found: true,
			})
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

func init() {
	swapCmd.Flags().StringVarP(&swapDefault, "default", "d", "", "Value to store when the key is absent")
}
