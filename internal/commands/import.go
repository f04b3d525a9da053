package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/openbooks-dev/openbooks/internal/auditlog"
	"github.com/openbooks-dev/openbooks/internal/importer"
	"github.com/openbooks-dev/openbooks/internal/posting"
)

func newImportCommand() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Batch-post normalized transaction rows",
	}
	importCmd.AddCommand(newImportScanCommand())
	importCmd.AddCommand(newImportRunCommand())
	return importCmd
}

func newImportScanCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List pending import files",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer e.close()

			files, err := importer.Scan(e.rootDir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("no pending import files")
				return nil
			}
			for _, f := range files {
				fmt.Printf("%s (%d bytes)\n", f.Name, f.Size)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	return cmd
}

func newImportRunCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Post all rows of a normalized import file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), dir, args[0])
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	return cmd
}

func runImport(ctx context.Context, dir, file string) error {
	e, err := openEnv(ctx, dir)
	if err != nil {
		return err
	}
	defer e.close()

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	rows, err := importer.ReadRows(f)
	_ = f.Close()
	if err != nil {
		return err
	}

	poster := posting.NewPoster(e.store, e.registry)
	bridge := importer.NewBridge(poster)
	defaults := importer.Defaults{
		CashAccountID:   e.cfg.Posting.DefaultCashAccount,
		OffsetAccountID: e.cfg.Posting.DefaultOffsetAccount,
	}

	summary, err := bridge.Run(ctx, rows, defaults)
	for _, rowErr := range summary.RowErrors {
		fmt.Fprintf(os.Stderr, "row %d: %v\n", rowErr.Row+2, rowErr.Err) // +2 for header and 1-basing
	}
	if err != nil {
		return err
	}

	fmt.Printf("Batch %s: posted %d, skipped %d, failed %d\n",
		summary.BatchID, summary.Posted, summary.Skipped, len(summary.RowErrors))

	audit := auditlog.Entry{
		Timestamp: time.Now(),
		Actor:     summary.BatchID,
		Action:    "import",
		Details:   fmt.Sprintf("%s: posted %d, skipped %d, failed %d", filepath.Base(file), summary.Posted, summary.Skipped, len(summary.RowErrors)),
	}
	if err := auditlog.Append(e.rootDir, []auditlog.Entry{audit}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write audit log: %v\n", err)
	}

	// Files handled from the drop directory move aside so `import scan`
	// stops listing them. Files with failed rows stay for correction;
	// re-running skips the rows that already posted.
	if len(summary.RowErrors) == 0 && inImportDir(e.rootDir, file) {
		if err := importer.MarkProcessed(e.rootDir, filepath.Base(file)); err != nil {
			return err
		}
		fmt.Printf("Moved %s to import/processed/\n", filepath.Base(file))
	}
	return nil
}

// inImportDir reports whether file sits directly in <rootDir>/import/.
func inImportDir(rootDir, file string) bool {
	abs, err := filepath.Abs(file)
	if err != nil {
		return false
	}
	return filepath.Dir(abs) == filepath.Join(rootDir, "import")
}
