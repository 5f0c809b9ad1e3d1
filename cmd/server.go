package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/owm-weather-tool/internal/config"
	"github.com/vzahanych/owm-weather-tool/internal/server"
	"go.uber.org/zap"
)

func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP tool server",
		Long:  `Start the HTTP server exposing the tool schema, tool calls, health and metrics endpoints.`,
		RunE:  runServer,
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	zlog := log.Zap()

	zlog.Info("Starting weather tool server",
		zap.String("config_path", configPath),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Bool("default_api_key", cfg.Weather.OpenWeatherMap.APIKey != ""),
		zap.Int("server_port", cfg.Server.Port))

	registry, weather := newRegistry()
	srv := server.NewServer(cfg, registry, weather, zlog, tele)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			zlog.Error("Server error", zap.Error(err))
		}
		return err
	case <-cmd.Context().Done():
		zlog.Info("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			zlog.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		zlog.Info("Server shutdown complete")
		return nil
	}
}
