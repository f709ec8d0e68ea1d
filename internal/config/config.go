package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"showreel/internal/animator"
	"showreel/internal/autoplay"
)

// FileName is the default config file name
const FileName = "showreel.toml"

// defaultSwipeCells is roughly 50px worth of terminal columns
const defaultSwipeCells = 6

// Config represents the application configuration
type Config struct {
	Version   int             `toml:"version"`
	Source    SourceConfig    `toml:"source"`
	Autoplay  AutoplayConfig  `toml:"autoplay"`
	Animation AnimationConfig `toml:"animation"`
	Input     InputConfig     `toml:"input"`
	Server    ServerConfig    `toml:"server"`
	Logging   LoggingConfig   `toml:"logging"`
}

// SourceConfig selects where the carousel items come from
type SourceConfig struct {
	Kind       string `toml:"kind"`       // file, sqlite or http
	Path       string `toml:"path"`       // YAML file for kind=file
	DSN        string `toml:"dsn"`        // database file for kind=sqlite
	URL        string `toml:"url"`        // API base URL for kind=http
	Collection string `toml:"collection"` // projects or certificates
	Watch      bool   `toml:"watch"`      // refetch when the file changes
	Timeout    string `toml:"timeout"`
}

// AutoplayConfig controls the autoplay timer
type AutoplayConfig struct {
	Enabled  bool   `toml:"enabled"`
	Interval string `toml:"interval"`
}

// AnimationConfig holds transition durations
type AnimationConfig struct {
	Enter  string `toml:"enter"`
	Exit   string `toml:"exit"`
	Settle string `toml:"settle"`
}

// InputConfig tunes gesture detection
type InputConfig struct {
	SwipeThreshold int `toml:"swipe_threshold"` // terminal cells
}

// ServerConfig configures the websocket render surface
type ServerConfig struct {
	Addr string `toml:"addr"`
	Path string `toml:"path"`
}

// LoggingConfig configures the logger
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service rooted at the user config dir
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return &configService{
		filePath: filepath.Join(configDir, "showreel", FileName),
	}
}

// NewConfigServiceAt creates a config service for an explicit file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

func (cs *configService) Path() string { return cs.filePath }

// Load loads the configuration, returning defaults when the file is missing
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Missing keys keep
// their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	timing := animator.DefaultTiming()
	return &Config{
		Version: 1,
		Source: SourceConfig{
			Kind:       "file",
			Path:       "portfolio.yaml",
			Collection: "projects",
			Timeout:    "10s",
		},
		Autoplay: AutoplayConfig{
			Enabled:  true,
			Interval: autoplay.DefaultInterval.String(),
		},
		Animation: AnimationConfig{
			Enter:  timing.Enter.String(),
			Exit:   timing.Exit.String(),
			Settle: timing.Settle.String(),
		},
		Input: InputConfig{
			SwipeThreshold: defaultSwipeCells,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8765",
			Path: "/ws",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "showreel.log",
		},
	}
}

// Validate checks values that would otherwise fail deep inside a component
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case "file", "sqlite", "http":
	default:
		return fmt.Errorf("source.kind %q must be file, sqlite or http", c.Source.Kind)
	}
	switch c.Source.Collection {
	case "projects", "certificates", "all":
	default:
		return fmt.Errorf("source.collection %q must be projects, certificates or all", c.Source.Collection)
	}
	if _, err := c.SourceTimeout(); err != nil {
		return err
	}
	if d, err := c.AutoplayInterval(); err != nil {
		return err
	} else if d <= 0 {
		return fmt.Errorf("autoplay.interval must be positive")
	}
	timing, err := c.Timing()
	if err != nil {
		return err
	}
	if err := timing.Validate(); err != nil {
		return err
	}
	if c.Input.SwipeThreshold < 0 {
		return fmt.Errorf("input.swipe_threshold must not be negative")
	}
	return nil
}

// AutoplayInterval parses autoplay.interval
func (c *Config) AutoplayInterval() (time.Duration, error) {
	return parseDuration("autoplay.interval", c.Autoplay.Interval, autoplay.DefaultInterval)
}

// SourceTimeout parses source.timeout
func (c *Config) SourceTimeout() (time.Duration, error) {
	return parseDuration("source.timeout", c.Source.Timeout, 10*time.Second)
}

// Timing parses the animation durations
func (c *Config) Timing() (animator.Timing, error) {
	def := animator.DefaultTiming()
	enter, err := parseDuration("animation.enter", c.Animation.Enter, def.Enter)
	if err != nil {
		return animator.Timing{}, err
	}
	exit, err := parseDuration("animation.exit", c.Animation.Exit, def.Exit)
	if err != nil {
		return animator.Timing{}, err
	}
	settle, err := parseDuration("animation.settle", c.Animation.Settle, def.Settle)
	if err != nil {
		return animator.Timing{}, err
	}
	return animator.Timing{Enter: enter, Exit: exit, Settle: settle}, nil
}

// SwipeThreshold returns the drag distance, in cells, that counts as a swipe
func (c *Config) SwipeThreshold() int {
	if c.Input.SwipeThreshold <= 0 {
		return defaultSwipeCells
	}
	return c.Input.SwipeThreshold
}

func parseDuration(key, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
