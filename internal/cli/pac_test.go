// ABOUTME: End-to-end tests for package commands against a temp store
// ABOUTME: Exercises add, get, list, search, and delete through cobra
package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacAddDefaults(t *testing.T) {
	cfg := testConfig(t)

	out, err := runCommand(t, cfg, "pac", "add", "toolkit", "--language", "go")
	require.NoError(t, err)
	assert.Contains(t, out, `Package "toolkit" v1.0.0 created`)
}

func TestPacAddDefaultAuthorFromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.DefaultAuthor = "jane"

	_, err := runCommand(t, cfg, "pac", "add", "authored", "--language", "go")
	require.NoError(t, err)

	out, err := runCommand(t, cfg, "pac", "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"author": "jane"`)
}

func TestPacGetFetchesAndCounts(t *testing.T) {
	cfg := testConfig(t)

	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "index.js"), []byte("export {}"), 0644))

	_, err := runCommand(t, cfg, "pac", "add", "web-kit", "--language", "javascript", "--source", src)
	require.NoError(t, err)

	out, err := runCommand(t, cfg, "pac", "get", "web-kit")
	require.NoError(t, err)
	assert.Contains(t, out, "Fetched web-kit v1.0.0")

	assert.FileExists(t, filepath.Join(cfg.FetchDir, "web-kit", "index.js"))

	out, err = runCommand(t, cfg, "pac", "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"usage_count": 1`)

	t.Run("missing package is an error", func(t *testing.T) {
		_, err := runCommand(t, cfg, "pac", "get", "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})
}

func TestPacUpdateRejectsEmptyVersion(t *testing.T) {
	cfg := testConfig(t)

	_, err := runCommand(t, cfg, "pac", "add", "pinned", "--language", "go")
	require.NoError(t, err)

	_, err = runCommand(t, cfg, "pac", "update", "pinned", "--version", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")

	_, err = runCommand(t, cfg, "pac", "update", "pinned", "--name", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}

func TestPacSearch(t *testing.T) {
	cfg := testConfig(t)

	for _, args := range [][]string{
		{"pac", "add", "react-components", "--language", "javascript", "--category", "frontend"},
		{"pac", "add", "vue-utilities", "--language", "javascript", "--category", "frontend"},
		{"pac", "add", "backend-helpers", "--language", "go", "--category", "backend"},
	} {
		_, err := runCommand(t, cfg, args...)
		require.NoError(t, err)
	}

	out, err := runCommand(t, cfg, "pac", "search", "frontend", "--field", "category")
	require.NoError(t, err)
	assert.Contains(t, out, "react-components")
	assert.Contains(t, out, "vue-utilities")
	assert.NotContains(t, out, "backend-helpers")
}

func TestPacDelete(t *testing.T) {
	cfg := testConfig(t)

	_, err := runCommand(t, cfg, "pac", "add", "doomed", "--language", "go")
	require.NoError(t, err)

	out, err := runCommand(t, cfg, "pac", "delete", "doomed")
	require.NoError(t, err)
	assert.Contains(t, out, `Package "doomed" deleted`)

	_, err = runCommand(t, cfg, "pac", "delete", "doomed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestDoctorCleanStore(t *testing.T) {
	cfg := testConfig(t)

	_, err := runCommand(t, cfg, "snippet", "add", "fine", "--language", "go", "--content", "x")
	require.NoError(t, err)

	out, err := runCommand(t, cfg, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "Store is consistent")
}

func TestDoctorFindsAndFixes(t *testing.T) {
	cfg := testConfig(t)

	_, err := runCommand(t, cfg, "snippet", "add", "broken", "--language", "go", "--content", "x")
	require.NoError(t, err)

	// Lose the mirror file behind the store's back
	require.NoError(t, os.Remove(filepath.Join(cfg.StoreDir, "snippets", "broken.go")))

	out, err := runCommand(t, cfg, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, `missing mirror file for snippet "broken"`)
	assert.Contains(t, out, "Run with --fix to repair")

	out, err = runCommand(t, cfg, "doctor", "--fix")
	require.NoError(t, err)
	assert.Contains(t, out, "fixed: rebuilt snippet file")

	out, err = runCommand(t, cfg, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "Store is consistent")
}
