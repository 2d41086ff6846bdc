package commands

import (
	"github.com/spf13/cobra"

	"github.com/cmdshelf/cmdshelf/pkg/mcpserver/shelf"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the library over the Model Context Protocol",
	Long: `Serve the command library over the Model Context Protocol so
agents and editors can browse, edit and run shelf commands.

By default the server speaks MCP over stdio, which is what editor MCP
configurations expect. With --http the streamable HTTP transport is used
instead.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "Serve over streamable HTTP at this address instead of stdio")
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	initLogging(cfg)

	svc, err := newService(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if mcpHTTPAddr != "" {
		return shelf.RunHTTP(cmd.Context(), svc, mcpHTTPAddr)
	}
	return shelf.Run(cmd.Context(), svc)
}
