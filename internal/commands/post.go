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
	"github.com/openbooks-dev/openbooks/internal/model"
	"github.com/openbooks-dev/openbooks/internal/posting"
)

func newPostCommand() *cobra.Command {
	var (
		dir         string
		dateStr     string
		txnType     string
		amountStr   string
		description string
		notes       string
		reference   string
		cashID      int64
		offsetID    int64
		categoryID  int64
		splitSpecs  []string
	)

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a transaction as a balanced journal entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			date, err := parseDateFlag("date", dateStr)
			if err != nil {
				return err
			}

			amount, err := decimal.NewFromString(amountStr)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amountStr, err)
			}

			splits, err := parseSplitSpecs(splitSpecs)
			if err != nil {
				return err
			}

			if cashID == 0 {
				cashID = e.cfg.Posting.DefaultCashAccount
			}

			req := posting.Request{
				Date:                   date,
				Type:                   model.TxnType(txnType),
				Amount:                 amount,
				Description:            description,
				Notes:                  notes,
				Reference:              reference,
				CashAccountID:          cashID,
				OffsetAccountID:        offsetID,
				CategoryID:             categoryID,
				Splits:                 splits,
				DefaultOffsetAccountID: e.cfg.Posting.DefaultOffsetAccount,
				SkipDuplicates:         e.cfg.Posting.DuplicateCheck,
			}

			poster := posting.NewPoster(e.store, e.registry)
			result, err := poster.Post(cmd.Context(), req)
			if err != nil {
				return err
			}

			if result.Skipped {
				fmt.Println("skipped: duplicate transaction")
				return nil
			}

			fmt.Printf("Posted transaction %d as %s (entry %d)\n", result.TransactionID, result.EntryRef, result.EntryID)

			audit := auditlog.Entry{
				Timestamp: time.Now(),
				Actor:     "cli",
				Action:    "post",
				Details:   fmt.Sprintf("%s %s %s", txnType, amount.StringFixed(2), description),
				Ref:       result.EntryRef,
			}
			if err := auditlog.Append(e.rootDir, []auditlog.Entry{audit}); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to write audit log: %v\n", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&txnType, "type", "", "income, expense, or transfer (required)")
	cmd.Flags().StringVar(&amountStr, "amount", "", "transaction amount (required)")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	cmd.Flags().StringVar(&reference, "ref", "", "reference number")
	cmd.Flags().Int64Var(&cashID, "cash", 0, "cash/bank account id")
	cmd.Flags().Int64Var(&offsetID, "offset", 0, "offset account id (or transfer destination)")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "category id")
	cmd.Flags().StringArrayVar(&splitSpecs, "split", nil, "split as amount:category_id:offset_account_id (repeatable)")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

// parseSplitSpecs parses repeated --split flags of the form
// "amount:category_id:offset_account_id"; the id parts may be empty.
func parseSplitSpecs(specs []string) ([]posting.SplitInput, error) {
	var splits []posting.SplitInput
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid split %q: expected amount:category_id:offset_account_id", spec)
		}

		amount, err := decimal.NewFromString(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid split amount %q: %w", parts[0], err)
		}

		var categoryID, offsetID int64
		if parts[1] != "" {
			if categoryID, err = strconv.ParseInt(parts[1], 10, 64); err != nil {
				return nil, fmt.Errorf("invalid split category %q: %w", parts[1], err)
			}
		}
		if parts[2] != "" {
			if offsetID, err = strconv.ParseInt(parts[2], 10, 64); err != nil {
				return nil, fmt.Errorf("invalid split offset account %q: %w", parts[2], err)
			}
		}

		splits = append(splits, posting.SplitInput{
			Amount:          amount,
			CategoryID:      categoryID,
			OffsetAccountID: offsetID,
		})
	}
	return splits, nil
}
