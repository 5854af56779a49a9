package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	keysFormat     string
	keysShowValues bool
)

// keyEntry is one row of keys output.
type keyEntry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// keysCmd lists the keys in a scope.
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the keys stored in a scope",
	Long: `List the keys stored in the selected scope.

For the workspace scope only keys under the current workspace namespace are
listed. Keys are shown in their stored, lowercased form.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		scope, err := selectedScope()
		if err != nil {
			return err
		}

		format := keysFormat
		if jsonOutput {
			format = "json"
		}
		if format != "table" && format != "json" && format != "yaml" {
			return fmt.Errorf("invalid --format %q: must be table, json, or yaml", keysFormat)
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

		keys := sess.storage.Keys(scope)
		entries := make([]keyEntry, 0, len(keys))
		for _, key := range keys {
			entry := keyEntry{Key: key}
			if keysShowValues {
				entry.Value, _ = sess.storage.Lookup(key, scope)
			}
			entries = append(entries, entry)
		}

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			return outputJSON(out, entries)
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(entries); err != nil {
				return fmt.Errorf("failed to encode yaml: %w", err)
			}
			return enc.Close()
		}

		PrintSection(out, fmt.Sprintf("%s scope (%s)", scope, PrintCount(len(entries), "key", "keys")))
		if len(entries) == 0 {
			PrintEmptyState(out, "No keys stored")
			return nil
		}

		headers := []string{"KEY"}
		if keysShowValues {
			headers = append(headers, "VALUE")
		}
		rows := make([][]string, 0, len(entries))
		for _, entry := range entries {
			row := []string{entry.Key}
			if keysShowValues {
				row = append(row, entry.Value)
			}
			rows = append(rows, row)
		}
		PrintTable(out, headers, rows)
		return nil
	},
}

func init() {
	keysCmd.Flags().StringVarP(&keysFormat, "format", "f", "table", "Output format: table, json, or yaml")
	keysCmd.Flags().BoolVarP(&keysShowValues, "values", "v", false, "Include stored values")
}
