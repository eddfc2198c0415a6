package cmd

import (
	"github.com/huangsam/hoursight/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the hoursight MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents summarize timesheets via standard tools.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// Tools receive the file path as an argument, so no positional file is resolved here.
		return sharedSetup(rootCtx, cmd, nil)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
