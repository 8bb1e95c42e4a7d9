// ABOUTME: Root command definition and CLI setup
// ABOUTME: Loads config once and injects it into every command
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/seanblair/codepac/internal/config"
	"github.com/seanblair/codepac/internal/store"
)

// Execute loads the user config and runs the CLI. The config handle is
// constructed here and passed into every command; nothing holds a
// package-level store.
func Execute() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return NewRootCmd(cfg).Execute()
}

// NewRootCmd builds the command tree for cfg.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "codepac",
		Short: "Local snippet and package store",
		Long:  `Codepac manages named, versioned code snippets and packages in a local SQLite store, mirroring each record to files on disk.`,
	}

	rootCmd.AddCommand(newSnippetCmd(cfg))
	rootCmd.AddCommand(newPacCmd(cfg))
	rootCmd.AddCommand(newDoctorCmd(cfg))
	rootCmd.AddCommand(newMCPCmd(cfg))

	return rootCmd
}

// openStore opens the store for the duration of one command.
func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
	}
}

// printWarnings reports partial-success conditions without failing the
// command.
func printWarnings(warnings []string) {
	for _, w := range warnings {
		color.New(color.FgYellow).Fprintf(os.Stderr, "Warning: %s\n", w)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
