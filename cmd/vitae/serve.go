package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	vitaemcp "github.com/gorewood/vitae/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	flags := &settingsFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run vitae as a Model Context Protocol (MCP) server over stdio.

Path and compiler flags set the defaults for the build tool.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "vitae": {
        "command": "vitae",
        "args": ["serve"]
      }
    }
  }

Available tools: render, build, filter, compilers`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := resolveSettings(cmd, flags)
			if err != nil {
				return err
			}
			server := vitaemcp.NewServer(buildVersion(), settings)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
	addSettingsFlags(cmd, flags, true)
	return cmd
}
