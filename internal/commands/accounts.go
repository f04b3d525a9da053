package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/openbooks-dev/openbooks/internal/accounts"
	"github.com/openbooks-dev/openbooks/internal/model"
)

func newAccountsCommand() *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Chart of accounts operations",
	}
	accountsCmd.AddCommand(newAccountsListCommand())
	accountsCmd.AddCommand(newAccountsExportCommand())
	accountsCmd.AddCommand(newAccountsDeactivateCommand())
	return accountsCmd
}

func newAccountsDeactivateCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "deactivate <account-id>",
		Short: "Mark an account inactive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid account id %q", args[0])
			}

			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			account, ok := e.registry.Get(accountID)
			if !ok {
				return fmt.Errorf("unknown account %d", accountID)
			}
			if !account.Active {
				fmt.Printf("%s (#%d) is already inactive\n", account.Name, account.ID)
				return nil
			}

			if err := e.store.DeactivateAccount(cmd.Context(), accountID); err != nil {
				return err
			}
			fmt.Printf("Deactivated %s (#%d); existing journal history is untouched\n", account.Name, account.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	return cmd
}

func newAccountsListCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the chart of accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			for _, a := range e.registry.All() {
				fmt.Println(formatAccountRow(a))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	return cmd
}

// formatAccountRow renders one chart listing row, including which side
// increases the account's balance.
func formatAccountRow(a model.Account) string {
	normal := "credit-normal"
	if a.Type.DebitNormal() {
		normal = "debit-normal"
	}
	status := "active"
	if !a.Active {
		status = "inactive"
	}
	return fmt.Sprintf("%6d  %-6s  %-30s  %-9s  %-13s  %s", a.ID, a.Number, a.Name, a.Type, normal, status)
}

func newAccountsExportCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the chart of accounts as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			exportDir := filepath.Join(e.rootDir, e.cfg.Export.Dir)
			if err := os.MkdirAll(exportDir, 0o755); err != nil {
				return fmt.Errorf("creating export dir: %w", err)
			}

			path := filepath.Join(exportDir, fmt.Sprintf("chart-of-accounts-%s.csv", time.Now().Format("20060102")))
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			defer f.Close()

			if err := accounts.WriteAccounts(f, e.registry.All()); err != nil {
				return err
			}

			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	return cmd
}
