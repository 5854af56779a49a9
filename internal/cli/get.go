package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	getDefault string
	getType    string
)

// getResult is the JSON shape of get.
type getResult struct {
	Key   string      `json:"key"`
	Scope string      `json:"scope"`
	Value interface{} `json:"value"`
	Found bool        `json:"found"`
}

// getCmd reads one value.
var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the value stored under a key",
	Long: `Print the value stored under a key in the selected scope.

Keys are case-insensitive. With --type int the value must parse as a base-10
integer; with --type bool the value is true only when it is exactly "true".
When the key is absent, --default is printed instead; without --default the
command fails.`,
	Args: cobra.ExactArgs(1),
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
		raw, found := sess.storage.Lookup(key, scope)
		hasDefault := cmd.Flags().Changed("default")
		if !found && !hasDefault {
			return fmt.Errorf("%w: %s (%s scope)", errKeyNotFound, key, scope)
		}

		var value interface{}
		switch getType {
		case "string":
			value = sess.storage.Get(key, scope, getDefault)
		case "int":
			var def int64
			if !found {
				n, ok := parseIntFlag(getDefault)
				if !ok {
					return fmt.Errorf("invalid --default %q: not an integer", getDefault)
				}
				def = n
			}
			n, ok := sess.storage.GetInteger(key, scope, def)
			if !ok {
				return fmt.Errorf("value of %s is not an integer: %q", key, raw)
			}
			value = n
		case "bool":
			value = sess.storage.GetBoolean(key, scope, getDefault == "true")
		default:
			return fmt.Errorf("invalid --type %q: must be string, int, or bool", getType)
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), getResult{
				Key:   key,
				Scope: scope.String(),
				Value: value,
				Found: found,
			})
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

func init() {
	getCmd.Flags().StringVarP(&getDefault, "default", "d", "", "Value to print when the key is absent")
	getCmd.Flags().StringVarP(&getType, "type", "t", "string", "Interpret the value as string, int, or bool")
}
