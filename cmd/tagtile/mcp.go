package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol integration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start an MCP server on stdio",
		Long: `Start an MCP server on stdio that exposes the running window manager
as the tools wm_status, wm_list_clients and wm_run_action. Register it
with an MCP client as the command "tagtile mcp serve".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := loggerFromContext(cmd.Context()).With("component", "mcp")
			server := mcp.NewServer(ipc.NewClient(), version, logger)
			logger.Info("MCP server starting on stdio")
			return server.Run(cmd.Context())
		},
	})
	return cmd
}
