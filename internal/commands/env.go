package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/openbooks-dev/openbooks/internal/accounts"
	"github.com/openbooks-dev/openbooks/internal/config"
	"github.com/openbooks-dev/openbooks/internal/store"
)

// env bundles the config, store, and account registry a command works
// against, rooted at one project directory.
type env struct {
	rootDir  string
	cfg      *config.Config
	store    *store.Store
	registry *accounts.Service
}

// openEnv loads openbooks.yaml from rootDir and opens the database it
// points at.
func openEnv(ctx context.Context, rootDir string) (*env, error) {
	absDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, "openbooks.yaml"))
	if err != nil {
		return nil, err
	}

	dbPath := cfg.Storage.Path
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(absDir, dbPath)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	registry, err := accounts.Load(ctx, st)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &env{rootDir: absDir, cfg: cfg, store: st, registry: registry}, nil
}

func (e *env) close() {
	_ = e.store.Close()
}

const dateFormat = "2006-01-02"

func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(dateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", name, value)
	}
	return d, nil
}
