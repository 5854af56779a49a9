package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var setType string

// setCmd writes one value.
var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a value under a key",
	Long: `Store a value under a key in the selected scope.

With --type int or --type bool the value is validated and normalized before
it is stored. Storing a value replaces any previous value for the key.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		scope, err := selectedScope()
		if err != nil {
			return err
		}

		value, err := typedValue(args[1], setType)
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

		sess.storage.Store(args[0], value, scope)
		if err := sess.sink.first(); err != nil {
			return err
		}

		if jsonOutput {
			stored, _ := sess.storage.Lookup(args[0], scope)
			return outputJSON(cmd.OutOrStdout(), getResult{
				Key:   args[0],
				Scope: scope.String(),
				Value: stored,
				Found: true,
			})
		}

		PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Stored %s (%s scope)", args[0], scope))
		return nil
	},
}

// typedValue converts a command-line value according to --type.
func typedValue(raw, kind string) (interface{}, error) {
	switch kind {
	case "string":
		return raw, nil
	case "int":
		n, ok := parseIntFlag(raw)
		if !ok {
			return nil, fmt.Errorf("invalid value %q: not an integer", raw)
		}
		return n, nil
	case "bool":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: not a boolean", raw)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("invalid --type %q: must be string, int, or bool", kind)
	}
}

func parseIntFlag(raw string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func init() {
	setCmd.Flags().StringVarP(&setType, "type", "t", "string", "Validate the value as string, int, or bool")
}
