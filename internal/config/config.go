package config

import (
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	cfg, _ := configValue.Load().(*Config)
	if cfg == nil {
		return NewDefaultConfig()
	}
	return cfg
}

// SetConfig is called once at startup; the stored value is treated as read-only.
func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Weather     WeatherConfig   `mapstructure:"weather"`
	MCP         MCPConfig       `mapstructure:"mcp"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

type WeatherConfig struct {
	OpenWeatherMap OpenWeatherMapConfig `mapstructure:"openweathermap"`
}

// OpenWeatherMapConfig holds the remote endpoint settings. APIKey is the
// default key used when a call does not pass appid explicitly.
type OpenWeatherMapConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	// Timeout in seconds, 0 disables it.
	Timeout int `mapstructure:"timeout"`
}

type MCPConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Weather: WeatherConfig{
			OpenWeatherMap: OpenWeatherMapConfig{
				BaseURL: "http://api.openweathermap.org/data/2.5",
				APIKey:  "",
				Timeout: 10,
			},
		},
		MCP: MCPConfig{
			Name:    "owm-weather-tool",
			Version: "1.0.0",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "tempo:4317",
			ServiceName: "owm-weather-tool",
		},
	}
}
