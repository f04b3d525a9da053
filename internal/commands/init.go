package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openbooks-dev/openbooks/internal/accounts"
	"github.com/openbooks-dev/openbooks/internal/config"
	"github.com/openbooks-dev/openbooks/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string
	var entityType string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new openbooks project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), absDir, name, entityType)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&entityType, "entity-type", "sole_proprietor", "entity type")

	return cmd
}

func runInit(ctx context.Context, dir, name, entityType string) error {
	// Create directory structure.
	dirs := []string{
		"exports",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write openbooks.yaml.
	cfg := config.Default(name, entityType)
	if err := config.Save(filepath.Join(dir, "openbooks.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Create the database and seed the default chart of accounts.
	st, err := store.Open(filepath.Join(dir, cfg.Storage.Path))
	if err != nil {
		return fmt.Errorf("creating ledger database: %w", err)
	}
	defer st.Close()

	for _, a := range accounts.DefaultChart(entityType) {
		acct := a
		if err := st.InsertAccount(ctx, &acct); err != nil {
			return fmt.Errorf("seeding account %s: %w", a.Name, err)
		}
	}
	for _, c := range accounts.DefaultCategories() {
		cat := c
		if err := st.InsertCategory(ctx, &cat); err != nil {
			return fmt.Errorf("seeding category %s: %w", c.Name, err)
		}
	}

	// Write .gitignore.
	gitignore := "*.db\nexports/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Printf("Initialized openbooks project at %s\n", dir)
	return nil
}
