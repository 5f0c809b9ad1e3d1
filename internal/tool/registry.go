package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/vzahanych/owm-weather-tool/internal/config"
	"github.com/vzahanych/owm-weather-tool/internal/service"
	"github.com/vzahanych/owm-weather-tool/pkg/telemetry"
	"go.uber.org/zap"
)

type Registry struct {
	tools map[string]Tool
	mu    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already exists", name)
	}

	r.tools[name] = tool
	return nil
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

// List returns the tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	return tools
}

func (r *Registry) Schemas() []Schema {
	tools := r.List()
	schemas := make([]Schema, 0, len(tools))
	for _, t := range tools {
		schemas = append(schemas, SchemaOf(t))
	}
	return schemas
}

// Call runs the named tool. The boolean is false when no such tool exists.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (Result, bool) {
	tool, exists := r.Get(name)
	if !exists {
		return Result{}, false
	}
	return tool.Call(ctx, args), true
}

// NewDefaultRegistry wires get_current_weather to OpenWeatherMap and
// registers it.
func NewDefaultRegistry(cfg config.OpenWeatherMapConfig, logger *zap.Logger, tele *telemetry.Telemetry) (*Registry, *CurrentWeatherTool) {
	weather := NewCurrentWeatherTool(service.NewOpenWeatherMapServiceWithConfig(cfg, logger, tele), logger)

	registry := NewRegistry()
	// a fresh registry cannot hold a duplicate
	_ = registry.Register(weather)

	return registry, weather
}
