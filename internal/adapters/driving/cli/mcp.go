package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sentorder/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server offers the tools "reorder" and "score" and exposes past runs as
resources. By default it communicates over stdio using JSON-RPC.

Use --port to start an HTTP server instead. The HTTP server also serves
Prometheus metrics on /metrics.

Examples:
  # Stdio mode (default)
  sentorder mcp serve

  # HTTP mode
  sentorder mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "sentorder": {
        "command": "/path/to/sentorder",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	reorder, err := requireReorder()
	if err != nil {
		return err
	}

	ports := &mcp.Ports{
		Reorder: reorder,
		History: historyService,
	}

	var opts []mcp.Option
	if metricsHandler != nil {
		opts = append(opts, mcp.WithMetricsHandler(metricsHandler))
	}

	server, err := mcp.NewServer(ports, opts...)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
