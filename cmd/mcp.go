package cmd

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/vzahanych/owm-weather-tool/internal/config"
	"go.uber.org/zap"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the tool over MCP stdio",
		Long:  `Run a Model Context Protocol server on stdin/stdout exposing get_current_weather.`,
		RunE:  runMCP,
	}
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	registry, _ := newRegistry()

	s := server.NewMCPServer(cfg.MCP.Name, cfg.MCP.Version, server.WithToolCapabilities(false))
	if err := registry.RegisterMCP(s); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	log.Zap().Info("Serving MCP over stdio", zap.String("name", cfg.MCP.Name))
	return server.ServeStdio(s)
}
