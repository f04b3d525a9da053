package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/openbooks-dev/openbooks/internal/auditlog"
	"github.com/openbooks-dev/openbooks/internal/reconcile"
)

func newReconcileCommand() *cobra.Command {
	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile an account against a bank period",
	}
	reconcileCmd.AddCommand(newReconcileReviewCommand())
	reconcileCmd.AddCommand(newReconcileCommitCommand())
	return reconcileCmd
}

func newReconcileReviewCommand() *cobra.Command {
	var (
		dir      string
		startStr string
		endStr   string
	)

	cmd := &cobra.Command{
		Use:   "review <account-id>",
		Short: "List candidate journal lines for a period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid account id %q", args[0])
			}

			start, err := parseDateFlag("start", startStr)
			if err != nil {
				return err
			}
			end, err := parseDateFlag("end", endStr)
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			engine := reconcile.NewEngine(e.store)
			candidates, err := engine.Review(cmd.Context(), accountID, start, end)
			if err != nil {
				return err
			}

			for _, c := range candidates {
				status := " "
				if c.Cleared {
					status = "*" // already cleared by a prior reconciliation
				}
				fmt.Printf("%s %6d  %s  %-40s  %12s\n",
					status, c.LineID, c.Date.Format(dateFormat), c.Description, c.Amount.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().StringVar(&startStr, "start", "", "period start YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&endStr, "end", "", "period end YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newReconcileCommitCommand() *cobra.Command {
	var (
		dir        string
		startStr   string
		endStr     string
		openingStr string
		endingStr  string
		linesStr   string
		exportPath string
	)

	cmd := &cobra.Command{
		Use:   "commit <account-id>",
		Short: "Commit a reconciliation for the selected lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid account id %q", args[0])
			}

			params := reconcile.CommitParams{AccountID: accountID}
			if params.Start, err = parseDateFlag("start", startStr); err != nil {
				return err
			}
			if params.End, err = parseDateFlag("end", endStr); err != nil {
				return err
			}
			if params.Opening, err = decimal.NewFromString(openingStr); err != nil {
				return fmt.Errorf("invalid opening balance %q: %w", openingStr, err)
			}
			if params.Ending, err = decimal.NewFromString(endingStr); err != nil {
				return fmt.Errorf("invalid ending balance %q: %w", endingStr, err)
			}
			if params.LineIDs, err = parseLineIDs(linesStr); err != nil {
				return err
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

			engine := reconcile.NewEngine(e.store)
			result, err := engine.Commit(cmd.Context(), params)
			if err != nil {
				return err
			}

			fmt.Printf("Committed reconciliation %d (cleared %s)\n", result.ReconciliationID, result.ClearedTotal.StringFixed(2))
			if !result.Difference.IsZero() {
				fmt.Printf("warning: unreconciled difference of %s\n", result.Difference.StringFixed(2))
			}

			audit := auditlog.Entry{
				Timestamp: time.Now(),
				Actor:     "cli",
				Action:    "reconcile",
				Details: fmt.Sprintf("account %d, %s to %s, difference %s",
					accountID, startStr, endStr, result.Difference.StringFixed(2)),
				Ref: strconv.FormatInt(result.ReconciliationID, 10),
			}
			if err := auditlog.Append(e.rootDir, []auditlog.Entry{audit}); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to write audit log: %v\n", err)
			}

			if exportPath != "" {
				rec, ok, err := e.store.GetReconciliation(cmd.Context(), result.ReconciliationID)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("reconciliation %d not found after commit", result.ReconciliationID)
				}
				cleared, err := engine.ClearedLines(cmd.Context(), result.ReconciliationID)
				if err != nil {
					return err
				}

				f, err := os.Create(exportPath)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				if err := reconcile.WriteCSV(f, account, rec, cleared, time.Now()); err != nil {
					return err
				}
				fmt.Printf("Wrote %s\n", exportPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().StringVar(&startStr, "start", "", "period start YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&endStr, "end", "", "period end YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&openingStr, "opening", "", "opening balance (required)")
	cmd.Flags().StringVar(&endingStr, "ending", "", "ending balance (required)")
	cmd.Flags().StringVar(&linesStr, "lines", "", "comma-separated journal line ids to clear (required)")
	cmd.Flags().StringVar(&exportPath, "export", "", "write the reconciliation report as CSV to this file")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("opening")
	_ = cmd.MarkFlagRequired("ending")
	_ = cmd.MarkFlagRequired("lines")

	return cmd
}

func parseLineIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid line id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no journal line ids given")
	}
	return ids, nil
}
