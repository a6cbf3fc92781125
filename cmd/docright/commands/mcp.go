// ABOUTME: MCP command starts the Model Context Protocol server on stdio
// ABOUTME: Exposes callout, scope, context and prompt tools for the current project
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/docright/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Serves the project containing --dir over MCP (Model Context Protocol)
on stdio. Agents can add and remove callouts, set the scope, attach
context, apply text edits and fetch the prompt in chunks.

Logs go to stderr so stdout stays a clean protocol stream.`,
		Args: cobra.NoArgs,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  docright mcp -C ~/writing/essay

  # Configure in an MCP client config:
  # {
  #   "mcpServers": {
  #     "docright": {
  #       "command": "docright",
  #       "args": ["mcp", "-C", "/path/to/project"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer("docright", versionInfo.Version)
	mcp.RegisterTools(server, ws, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("MCP server starting on stdio", "project", ws.Project.Root)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	return nil
}
