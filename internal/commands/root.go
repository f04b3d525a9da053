package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openbooks-dev/openbooks/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "openbooks",
		Short:   "Double-entry bookkeeping with posting and reconciliation",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountsCommand())
	rootCmd.AddCommand(newPostCommand())
	rootCmd.AddCommand(newRegisterCommand())
	rootCmd.AddCommand(newReconcileCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newAuditCommand())

	return rootCmd
}
