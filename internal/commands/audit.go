package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/openbooks-dev/openbooks/internal/auditlog"
)

func newAuditCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			entries, err := auditlog.Read(absDir)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("audit log is empty")
				return nil
			}

			for _, e := range entries {
				fmt.Printf("%s  %-36s  %-9s  %s  %s\n",
					e.Timestamp.Format(time.RFC3339), e.Actor, e.Action, e.Details, e.Ref)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	return cmd
}
