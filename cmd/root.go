package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vzahanych/owm-weather-tool/internal/config"
	"github.com/vzahanych/owm-weather-tool/internal/tool"
	"github.com/vzahanych/owm-weather-tool/pkg/logger"
	"github.com/vzahanych/owm-weather-tool/pkg/telemetry"
	"go.uber.org/zap"
)

var (
	configPath string
	log        *logger.Logger
	tele       *telemetry.Telemetry
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "owm-weather-tool",
		Short: "OpenWeatherMap current weather tool",
		Long: `Exposes get_current_weather, a callable tool that forwards query parameters to the
OpenWeatherMap current weather API, over HTTP, MCP stdio, or the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeServices(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return shutdownServices(context.Background())
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")

	cmd.AddCommand(newServerCmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newCurrentCmd())
	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newShellCmd())

	return cmd
}

func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		if log != nil {
			log.Info("Received shutdown signal", zap.String("signal", sig.String()))
		}
		cancel()
	}()

	return rootCmd().ExecuteContext(ctx)
}

func initializeServices(ctx context.Context) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Set config; it stays read-only for the rest of the process
	config.SetConfig(cfg)

	// 3. Initialize logger
	log, err = logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	tele, err = telemetry.New(ctx, cfg.Telemetry)
	if err != nil {
		log.Warnw("Failed to initialize telemetry", "error", err)
		tele = telemetry.Disabled()
	}

	return nil
}

func shutdownServices(ctx context.Context) error {
	if err := tele.Shutdown(ctx); err != nil {
		log.Warnw("Failed to shutdown telemetry", "error", err)
	}
	_ = log.Sync()
	return nil
}

// newRegistry builds the tool registry from the loaded config.
func newRegistry() (*tool.Registry, *tool.CurrentWeatherTool) {
	cfg := config.GetConfig()
	return tool.NewDefaultRegistry(cfg.Weather.OpenWeatherMap, log.Zap(), tele)
}
