// ABOUTME: Standalone docright MCP server with stdio transport
// ABOUTME: Serves the project in DOCRIGHT_PROJECT (or the working directory)
package main

import (
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/docright/internal/config"
	"github.com/harper/docright/internal/logging"
	"github.com/harper/docright/internal/mcp"
	"github.com/harper/docright/internal/workspace"
)

var version = "dev"

func main() {
	logger := logging.New(os.Stderr, false)

	for _, f := range config.LoadEnvFiles() {
		logger.Debug("loaded env file", "path", f)
	}

	dir := os.Getenv("DOCRIGHT_PROJECT")
	if dir == "" {
		dir = "."
	}
	ws, err := workspace.Open(dir, logger)
	if err != nil {
		logger.Fatal("failed to open project", "dir", dir, "err", err)
	}

	server := mcpserver.NewMCPServer("docright", version)
	mcp.RegisterTools(server, ws, logger)

	logger.Info("docright MCP server starting on stdio", "project", ws.Project.Root)
	if err := mcpserver.ServeStdio(server); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
