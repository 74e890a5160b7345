package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the client and simulator
type Config struct {
	Server    ServerConfig
	Simulator SimulatorConfig
}

// ServerConfig points the client at the generation service
type ServerConfig struct {
	URL        string
	EventsPath string
}

// SimulatorConfig tunes the bundled generation service
type SimulatorConfig struct {
	Port              string
	LibraryDir        string
	GenerationSeconds int
	FailureRate       float64
	PlaybackSeconds   int
}

// Load reads configuration from an optional config file and the environment
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables (ARIA_SERVER_URL etc.)
	viper.SetEnvPrefix("aria")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("server.url", "http://localhost:8080")
	viper.SetDefault("server.events_path", "/api/ws/events")
	viper.SetDefault("simulator.port", "8080")
	viper.SetDefault("simulator.library_dir", defaultLibraryDir())
	viper.SetDefault("simulator.generation_seconds", 8)
	viper.SetDefault("simulator.failure_rate", 0.1)
	viper.SetDefault("simulator.playback_seconds", 30)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			URL:        strings.TrimRight(viper.GetString("server.url"), "/"),
			EventsPath: viper.GetString("server.events_path"),
		},
		Simulator: SimulatorConfig{
			Port:              viper.GetString("simulator.port"),
			LibraryDir:        viper.GetString("simulator.library_dir"),
			GenerationSeconds: viper.GetInt("simulator.generation_seconds"),
			FailureRate:       viper.GetFloat64("simulator.failure_rate"),
			PlaybackSeconds:   viper.GetInt("simulator.playback_seconds"),
		},
	}

	return cfg, nil
}

// EventURL derives the websocket endpoint from the server URL
func (c *Config) EventURL() string {
	url := c.Server.URL + c.Server.EventsPath
	if strings.HasPrefix(url, "https://") {
		return "wss://" + strings.TrimPrefix(url, "https://")
	}
	return "ws://" + strings.TrimPrefix(url, "http://")
}

func defaultLibraryDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./music"
	}
	return filepath.Join(home, "Music", "Aria")
}
