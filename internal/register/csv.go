package register

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/openbooks-dev/openbooks/internal/model"
)

const dateFormat = "2006-01-02"

// WriteCSV renders a register as the Account Register export: report
// header rows, a blank row, then one row per line with amounts to two
// decimals.
func WriteCSV(w io.Writer, account model.Account, lines []model.RegisterLine, opts Options, generated time.Time) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := [][]string{
		{"Report", "Account Register"},
		{"Account", fmt.Sprintf("%s (#%s)", account.Name, strconv.FormatInt(account.ID, 10))},
	}
	if !opts.Start.IsZero() || !opts.End.IsZero() {
		header = append(header, []string{"Period", fmt.Sprintf("%s to %s", opts.Start.Format(dateFormat), opts.End.Format(dateFormat))})
	}
	header = append(header,
		[]string{"Generated", generated.Format(time.RFC3339)},
		[]string{},
		[]string{"Date", "Description", "Debit", "Credit", "Running Balance"},
	)

	for _, row := range header {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing register header: %w", err)
		}
	}

	for i, line := range lines {
		row := []string{
			line.Date.Format(dateFormat),
			line.Description,
			line.Debit.StringFixed(2),
			line.Credit.StringFixed(2),
			line.Balance.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing register row %d: %w", i+1, err)
		}
	}
	return cw.Error()
}
