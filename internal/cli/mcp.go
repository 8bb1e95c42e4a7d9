// ABOUTME: MCP subcommand for running the codepac MCP server
// ABOUTME: Handles stdio transport initialization and server lifecycle
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/seanblair/codepac/internal/config"
	"github.com/seanblair/codepac/internal/mcp"
)

func newMCPCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the codepac MCP server",
		Long:  `Start the Model Context Protocol server for AI assistants to interact with the snippet and package store over stdio.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := mcp.NewServer(cfg)
			return server.Run(context.Background())
		},
	}
	return cmd
}
