package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/owm-weather-tool/internal/config"
	"github.com/vzahanych/owm-weather-tool/internal/server/handlers"
	"github.com/vzahanych/owm-weather-tool/internal/server/middlewares"
	"github.com/vzahanych/owm-weather-tool/internal/tool"
	"github.com/vzahanych/owm-weather-tool/pkg/telemetry"
	"go.uber.org/zap"
)

type Server struct {
	cfg         *config.Config
	engine      *gin.Engine
	server      *http.Server
	registry    *tool.Registry
	weather     *tool.CurrentWeatherTool
	httpMetrics *middlewares.MetricsMiddleware
	toolMetrics *handlers.ToolMetrics
	logger      *zap.Logger
	tele        *telemetry.Telemetry
}

func NewServer(cfg *config.Config, registry *tool.Registry, weather *tool.CurrentWeatherTool, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	httpMetrics := middlewares.NewMetricsMiddleware(logger, tele)
	toolMetrics := handlers.NewToolMetrics()
	weather.SetMetricsRecorder(toolMetrics)

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger, time.RFC3339, true))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(httpMetrics.Handler())

	s := &Server{
		cfg:         cfg,
		engine:      engine,
		registry:    registry,
		weather:     weather,
		httpMetrics: httpMetrics,
		toolMetrics: toolMetrics,
		logger:      logger,
		tele:        tele,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	toolHandler := handlers.NewToolHandler(s.registry, s.weather, s.logger)

	// Tool endpoints
	s.engine.GET("/tools", toolHandler.ListTools)
	s.engine.POST("/tools/:name", toolHandler.CallTool)
	s.engine.GET("/weather", toolHandler.GetWeather)
	s.engine.GET("/timezone", toolHandler.GetTimezone)

	// Health endpoints (Kubernetes friendly)
	healthHandler := handlers.NewHealthHandler(s.logger, s.cfg.Weather.OpenWeatherMap.APIKey != "")
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/health/live", healthHandler.Liveness)
	s.engine.GET("/health/ready", healthHandler.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", handlers.NewMetricsHandler(s.logger, s.httpMetrics.GetHTTPMetrics(), s.toolMetrics).ServeMetrics)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      s.engine,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeout) * time.Second,
	}

	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
