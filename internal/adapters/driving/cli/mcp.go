package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/regdash/internal/adapters/driving/mcp"
	"github.com/custodia-labs/regdash/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so assistants can query the dashboard.

The source table is loaded once at start-up; the reload_dataset tool reads
it again. Tools:
  dashboard_summary  mean intensity per domain and sector
  exclusive_gaps     domains regulated for one sector only
  yearly_trend       yearly counts with a linear projection
  list_records       scored records, optionally narrowed by --where syntax
  reload_dataset     read the source table again

Resources:
  regdash://records           every record as JSON
  regdash://records/{sector}  the records of one sector

By default the server communicates over stdio using JSON-RPC.
Use --port to serve HTTP instead.

Examples:
  # Stdio mode
  regdash mcp serve -f regulations.csv

  # HTTP mode (for MCP Inspector, remote access)
  regdash mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "regdash": {
        "command": "/path/to/regdash",
        "args": ["mcp", "serve", "-f", "/path/to/regulations.csv"]
      }
    }
  }`,
	Args: cobra.NoArgs,
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

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info, err := loadDataset(ctx)
	if err != nil {
		return err
	}
	logger.Info("mcp: serving %d record(s) from %s", info.RecordCount, info.Source)

	server, err := mcp.NewServer(&mcp.Ports{Dataset: datasetService})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	// Stdout carries the protocol.
	logger.SetOutput(os.Stderr)
	return server.Run(ctx)
}
