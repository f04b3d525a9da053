package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks-dev/openbooks/internal/model"
)

// Row is one normalized transaction row of the interchange format.
type Row struct {
	Date            time.Time
	Type            model.TxnType
	Amount          decimal.Decimal
	Description     string
	Reference       string
	CashAccountID   int64
	OffsetAccountID int64
	CategoryID      int64
	Notes           string
}

// Header is the CSV header of the normalized interchange format.
const Header = "date,type,amount,description,reference,cash_account_id,offset_account_id,category_id,notes"

const (
	numFields  = 9
	dateFormat = "2006-01-02"
	colDate    = 0
	colType    = 1
	colAmount  = 2
	colDesc    = 3
	colRef     = 4
	colCash    = 5
	colOffset  = 6
	colCat     = 7
	colNotes   = 8
)

// ReadRows reads all rows from a normalized interchange CSV.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var rows []Row
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// UnmarshalRow converts a CSV record to a Row.
func UnmarshalRow(record []string) (Row, error) {
	if len(record) != numFields {
		return Row{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return Row{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Row{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	cash, err := parseOptionalID(record[colCash])
	if err != nil {
		return Row{}, fmt.Errorf("parsing cash_account_id: %w", err)
	}
	offset, err := parseOptionalID(record[colOffset])
	if err != nil {
		return Row{}, fmt.Errorf("parsing offset_account_id: %w", err)
	}
	category, err := parseOptionalID(record[colCat])
	if err != nil {
		return Row{}, fmt.Errorf("parsing category_id: %w", err)
	}

	return Row{
		Date:            date,
		Type:            model.TxnType(record[colType]),
		Amount:          amount,
		Description:     record[colDesc],
		Reference:       record[colRef],
		CashAccountID:   cash,
		OffsetAccountID: offset,
		CategoryID:      category,
		Notes:           record[colNotes],
	}, nil
}

func parseOptionalID(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}
