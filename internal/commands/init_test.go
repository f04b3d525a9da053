package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks-dev/openbooks/internal/accounts"
	"github.com/openbooks-dev/openbooks/internal/config"
	"github.com/openbooks-dev/openbooks/internal/store"
)

func TestRunInit_ScaffoldsProject(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	t.Setenv("OPENBOOKS_DB", "")

	require.NoError(t, runInit(ctx, dir, "Acme Consulting", "sole_proprietor"))

	for _, d := range []string{"exports", "logs", "import", "import/processed"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "missing %s", d)
		assert.True(t, info.IsDir())
	}

	cfg, err := config.Load(filepath.Join(dir, "openbooks.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Acme Consulting", cfg.Business.Name)
	assert.Equal(t, "ledger.db", cfg.Storage.Path)

	gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), "*.db")

	_, err = os.Stat(filepath.Join(dir, "import", ".gitkeep"))
	require.NoError(t, err)
}

func TestRunInit_SeedsDefaultChart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	require.NoError(t, runInit(ctx, dir, "Acme", "sole_proprietor"))

	st, err := store.Open(filepath.Join(dir, "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	registry, err := accounts.Load(ctx, st)
	require.NoError(t, err)
	assert.Len(t, registry.All(), len(accounts.DefaultChart("sole_proprietor")))

	checking, ok := registry.Get(101)
	require.True(t, ok)
	assert.Equal(t, "Business Checking", checking.Name)

	offset, ok := registry.OffsetForCategory(7)
	require.True(t, ok)
	assert.Equal(t, int64(601), offset)
}

func TestParseDateFlag(t *testing.T) {
	d, err := parseDateFlag("start", "2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())

	empty, err := parseDateFlag("start", "")
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	_, err = parseDateFlag("start", "01/05/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start")
}
