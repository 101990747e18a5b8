package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hverbeek/esm_postproc/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
tables:
  - name: asset
    defaults:
      capacity_storage_energy: "0"
  - name: rep_periods_mapping
    defaults:
      weight: "1"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Tables, 2)

	defaults, ok := cfg.ForTable("asset")
	require.True(t, ok)
	assert.Equal(t, "0", defaults["capacity_storage_energy"])

	_, ok = cfg.ForTable("nonexistent")
	assert.False(t, ok)
}

func TestLoadRejectsDuplicateTable(t *testing.T) {
	path := writeConfig(t, `
tables:
  - name: asset
    defaults:
      capacity: "0"
  - name: asset
    defaults:
      capacity: "1"
`)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared twice")
}

func TestLoadRejectsUnnamedTable(t *testing.T) {
	path := writeConfig(t, `
tables:
  - defaults:
      capacity: "0"
`)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no name")
}

func TestLoadRejectsEmptyDefaults(t *testing.T) {
	path := writeConfig(t, `
tables:
  - name: asset
`)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares no defaults")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "tables: [notamap")
	_, err := config.Load(path)
	require.Error(t, err)
}
