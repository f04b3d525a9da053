// Package importer feeds normalized transaction rows into the posting
// engine in bulk. It consumes an interchange CSV of already-normalized
// rows; parsing bank- or QuickBooks-specific formats is someone else's
// job.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/openbooks-dev/openbooks/internal/posting"
)

// Defaults supply batch-wide fallbacks for rows that do not name their
// own cash or offset account.
type Defaults struct {
	CashAccountID   int64
	OffsetAccountID int64
}

// Bridge posts batches of normalized rows through a Poster.
type Bridge struct {
	poster *posting.Poster
}

// NewBridge creates a Bridge over the given poster.
func NewBridge(p *posting.Poster) *Bridge {
	return &Bridge{poster: p}
}

// Summary reports one batch run. Rows that failed validation are
// listed with their index; duplicates are skipped, not errors.
type Summary struct {
	BatchID   string
	Posted    int
	Skipped   int
	RowErrors []posting.RowError
}

// Run posts all rows as one batch with duplicate-skipping on. A
// persistence failure aborts the batch; per-row validation and balance
// failures are reported in the summary and do not stop it.
func (b *Bridge) Run(ctx context.Context, rows []Row, defaults Defaults) (Summary, error) {
	reqs := make([]posting.Request, len(rows))
	for i, row := range rows {
		cash := row.CashAccountID
		if cash == 0 {
			cash = defaults.CashAccountID
		}
		reqs[i] = posting.Request{
			Date:                   row.Date,
			Type:                   row.Type,
			Amount:                 row.Amount,
			Description:            row.Description,
			Notes:                  row.Notes,
			Reference:              row.Reference,
			CashAccountID:          cash,
			OffsetAccountID:        row.OffsetAccountID,
			CategoryID:             row.CategoryID,
			DefaultOffsetAccountID: defaults.OffsetAccountID,
			SkipDuplicates:         true,
		}
	}

	summary := Summary{BatchID: uuid.NewString()}
	batch, err := b.poster.PostBatch(ctx, reqs)
	summary.Posted = len(batch.Posted)
	summary.Skipped = batch.Skipped
	summary.RowErrors = batch.RowErrors
	if err != nil {
		return summary, fmt.Errorf("batch %s: %w", summary.BatchID, err)
	}
	return summary, nil
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// importDir is the drop directory for normalized-row CSVs.
const importDir = "import"

// processedDir is where handled files are moved.
const processedDir = "import/processed"

// Scan returns CSV files in <rootDir>/import/.
func Scan(rootDir string) ([]FileInfo, error) {
	dir := filepath.Join(rootDir, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(rootDir, fileName string) error {
	src := filepath.Join(rootDir, importDir, fileName)
	dstDir := filepath.Join(rootDir, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
