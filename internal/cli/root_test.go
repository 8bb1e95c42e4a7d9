// ABOUTME: Unit tests for the command tree
// ABOUTME: Verifies command registration and metadata
package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanblair/codepac/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		StoreDir: t.TempDir(),
		FetchDir: t.TempDir(),
	}
}

func runCommand(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(cfg)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cfg := testConfig(t)
	cmd := NewRootCmd(cfg)

	assert.Equal(t, "codepac", cmd.Use)
	assert.Equal(t, "Local snippet and package store", cmd.Short)

	for _, name := range []string{"snippet", "pac", "doctor", "mcp"} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "expected %s subcommand registered", name)
	}
}

func TestRootHelp(t *testing.T) {
	out, err := runCommand(t, testConfig(t), "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "codepac")
}
