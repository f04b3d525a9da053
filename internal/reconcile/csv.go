package reconcile

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks-dev/openbooks/internal/model"
)

const dateFormat = "2006-01-02"

// WriteCSV renders the Reconciliation Report export: header rows, the
// cleared lines as signed amounts, then the cleared total and
// difference trailers.
func WriteCSV(w io.Writer, account model.Account, rec model.Reconciliation, cleared []Candidate, generated time.Time) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := [][]string{
		{"Report", "Reconciliation Report"},
		{"Account", account.Name},
		{"Period", fmt.Sprintf("%s to %s", rec.Start.Format(dateFormat), rec.End.Format(dateFormat))},
		{"Opening", rec.Opening.StringFixed(2)},
		{"Ending", rec.Ending.StringFixed(2)},
		{"Generated", generated.Format(time.RFC3339)},
		{},
		{"Date", "Description", "Amount"},
	}
	for _, row := range header {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing reconciliation header: %w", err)
		}
	}

	total := decimal.Zero
	for i, line := range cleared {
		total = total.Add(line.Amount)
		row := []string{
			line.Date.Format(dateFormat),
			line.Description,
			line.Amount.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing reconciliation row %d: %w", i+1, err)
		}
	}

	openingPlusCleared := rec.Opening.Add(total)
	trailer := [][]string{
		{"Cleared total", total.StringFixed(2)},
		{"Opening + Cleared", openingPlusCleared.StringFixed(2)},
		{"Difference vs Ending", rec.Ending.Sub(openingPlusCleared).StringFixed(2)},
	}
	for _, row := range trailer {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing reconciliation trailer: %w", err)
		}
	}
	return cw.Error()
}
