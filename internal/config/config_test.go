package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openbooks.yaml")
	t.Setenv("OPENBOOKS_DB", "")

	cfg := Default("Acme Consulting", "llc_single_member")
	cfg.Storage.Path = "books/ledger.db"
	cfg.Posting.DefaultOffsetAccount = 601
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openbooks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("business: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_EnvOverridesStoragePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openbooks.yaml")
	require.NoError(t, Save(path, Default("Acme", "sole_proprietor")))

	t.Setenv("OPENBOOKS_DB", "/tmp/other.db")
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", got.Storage.Path)
}

func TestDefault(t *testing.T) {
	cfg := Default("Acme", "sole_proprietor")
	assert.Equal(t, "Acme", cfg.Business.Name)
	assert.Equal(t, "ledger.db", cfg.Storage.Path)
	assert.True(t, cfg.Posting.DuplicateCheck)
	assert.Equal(t, int64(101), cfg.Posting.DefaultCashAccount)
	assert.Equal(t, "exports", cfg.Export.Dir)
}
