package commands

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/openbooks-dev/openbooks/internal/register"
)

func newRegisterCommand() *cobra.Command {
	var (
		dir        string
		startStr   string
		endStr     string
		openingStr string
		csvPath    string
	)

	cmd := &cobra.Command{
		Use:   "register <account-id>",
		Short: "Show an account register with running balances",
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

			opts := register.Options{}
			if opts.Start, err = parseDateFlag("start", startStr); err != nil {
				return err
			}
			if opts.End, err = parseDateFlag("end", endStr); err != nil {
				return err
			}
			if openingStr != "" {
				if opts.Opening, err = decimal.NewFromString(openingStr); err != nil {
					return fmt.Errorf("invalid opening balance %q: %w", openingStr, err)
				}
			}

			reg := register.New(e.store)
			lines, err := reg.Lines(cmd.Context(), accountID, opts)
			if err != nil {
				return err
			}

			if csvPath != "" {
				f, err := os.Create(csvPath)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				if err := register.WriteCSV(f, account, lines, opts, time.Now()); err != nil {
					return err
				}
				fmt.Printf("Wrote %s\n", csvPath)
				return nil
			}

			fmt.Printf("Register for %s (#%d)\n", account.Name, account.ID)
			for _, line := range lines {
				fmt.Printf("%s  %-40s  %10s  %10s  %12s\n",
					line.Date.Format(dateFormat), line.Description,
					line.Debit.StringFixed(2), line.Credit.StringFixed(2), line.Balance.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().StringVar(&startStr, "start", "", "period start YYYY-MM-DD")
	cmd.Flags().StringVar(&endStr, "end", "", "period end YYYY-MM-DD")
	cmd.Flags().StringVar(&openingStr, "opening", "", "opening balance for a scoped period")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the register as CSV to this file")

	return cmd
}
