package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput    bool
	workspaceFlag string
	uidFlag       string
	scopeFlag     string
	discoverFlag  bool
)

// rootCmd is the root command for scopekv.
var rootCmd = &cobra.Command{
	Use:     "scopekv",
	Version: "dev",
	Short:   "Scoped key-value storage for global and per-workspace settings",
	Long: `scopekv stores string values in two scopes that share one flat key-value store.

Global values are visible everywhere. Workspace values are namespaced by the
workspace location and are discarded automatically when a workspace is deleted
and recreated at the same path.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "Workspace directory or location URI (default: no workspace)")
	rootCmd.PersistentFlags().BoolVar(&discoverFlag, "discover", false, "Use the repository root enclosing the current directory as the workspace")
	rootCmd.PersistentFlags().StringVar(&uidFlag, "uid", "", "Override the workspace uid")
	rootCmd.PersistentFlags().StringVarP(&scopeFlag, "scope", "s", "global", "Scope to operate on: global or workspace")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "values",
		Title: "Values:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "inspection",
		Title: "Inspection:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "maintenance",
		Title: "Maintenance:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cli-tooling",
		Title: "CLI & Tooling:",
	})

	// CLI & Tooling commands
	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the scopekv CLI version",
		Args:    cobra.NoArgs,
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	rootCmd.SetHelpCommandGroupID("cli-tooling")
	rootCmd.SetCompletionCommandGroupID("cli-tooling")

	// Values commands
	getCmd.GroupID = "values"
	setCmd.GroupID = "values"
	rmCmd.GroupID = "values"
	swapCmd.GroupID = "values"
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(swapCmd)

	// Inspection commands
	keysCmd.GroupID = "inspection"
	pathCmd.GroupID = "inspection"
	workspaceCmd.GroupID = "inspection"
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(workspaceCmd)

	// Maintenance commands
	clearCmd.GroupID = "maintenance"
	rootCmd.AddCommand(clearCmd)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
