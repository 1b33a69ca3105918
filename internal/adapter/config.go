package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Grid    GridConfig    `mapstructure:"grid"`
	UI      UIConfig      `mapstructure:"ui"`
	History HistoryConfig `mapstructure:"history"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GridConfig holds board behaviour
type GridConfig struct {
	InitialTotal   int           `mapstructure:"initial_total"`   // rounded up to a perfect square
	PlacementDelay time.Duration `mapstructure:"placement_delay"` // how long a flight takes
	Seed           uint64        `mapstructure:"seed"`            // 0 = random
	SeedURLs       []string      `mapstructure:"seed_urls"`       // pre-filled cells
}

// UIConfig holds UI configuration
type UIConfig struct {
	FrameInterval time.Duration `mapstructure:"frame_interval"`
	ShowBackdrop  bool          `mapstructure:"show_backdrop"`
	Suggestions   int           `mapstructure:"suggestions"` // history rows under the URL bar
}

// HistoryConfig holds URL history configuration
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`  // directory for the database, empty = memory only
	Limit   int    `mapstructure:"limit"` // entries kept
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			InitialTotal:   9,
			PlacementDelay: 900 * time.Millisecond,
			Seed:           0,
			SeedURLs:       []string{},
		},
		UI: UIConfig{
			FrameInterval: 50 * time.Millisecond,
			ShowBackdrop:  true,
			Suggestions:   5,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    defaultDataPath(),
			Limit:   200,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "mosaic.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "mosaic")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "mosaic")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "mosaic")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "mosaic")
	}
}

// setDefaults registers every key so environment overrides are seen by Unmarshal
func setDefaults(cfg *Config) {
	viper.SetDefault("grid.initial_total", cfg.Grid.InitialTotal)
	viper.SetDefault("grid.placement_delay", cfg.Grid.PlacementDelay)
	viper.SetDefault("grid.seed", cfg.Grid.Seed)
	viper.SetDefault("grid.seed_urls", cfg.Grid.SeedURLs)

	viper.SetDefault("ui.frame_interval", cfg.UI.FrameInterval)
	viper.SetDefault("ui.show_backdrop", cfg.UI.ShowBackdrop)
	viper.SetDefault("ui.suggestions", cfg.UI.Suggestions)

	viper.SetDefault("history.enabled", cfg.History.Enabled)
	viper.SetDefault("history.path", cfg.History.Path)
	viper.SetDefault("history.limit", cfg.History.Limit)

	viper.SetDefault("logging.file", cfg.Logging.File)
	viper.SetDefault("logging.level", cfg.Logging.Level)
}

// LoadConfig loads configuration from file and environment. An empty
// configFile searches the default locations.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()
	setDefaults(cfg)

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(defaultConfigPath())
		viper.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. MOSAIC_GRID_PLACEMENT_DELAY=1s
	viper.SetEnvPrefix("MOSAIC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the board cannot run with
func (c *Config) Validate() error {
	if c.Grid.InitialTotal < 0 {
		return fmt.Errorf("grid.initial_total must not be negative, got %d", c.Grid.InitialTotal)
	}
	if c.Grid.PlacementDelay < 0 {
		return fmt.Errorf("grid.placement_delay must not be negative, got %s", c.Grid.PlacementDelay)
	}
	if c.UI.FrameInterval <= 0 {
		return fmt.Errorf("ui.frame_interval must be positive, got %s", c.UI.FrameInterval)
	}
	if c.UI.Suggestions < 0 {
		return fmt.Errorf("ui.suggestions must not be negative, got %d", c.UI.Suggestions)
	}
	return nil
}

// SaveConfig saves the current configuration to the default config file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return SaveConfigAs(cfg, filepath.Join(configPath, "config.yaml"))
}

// SaveConfigAs writes the configuration to an explicit file
func SaveConfigAs(cfg *Config, configFile string) error {
	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("grid.initial_total", cfg.Grid.InitialTotal)
	viper.Set("grid.placement_delay", cfg.Grid.PlacementDelay.String())
	viper.Set("grid.seed", cfg.Grid.Seed)
	viper.Set("grid.seed_urls", cfg.Grid.SeedURLs)

	viper.Set("ui.frame_interval", cfg.UI.FrameInterval.String())
	viper.Set("ui.show_backdrop", cfg.UI.ShowBackdrop)
	viper.Set("ui.suggestions", cfg.UI.Suggestions)

	viper.Set("history.enabled", cfg.History.Enabled)
	viper.Set("history.path", cfg.History.Path)
	viper.Set("history.limit", cfg.History.Limit)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// HistoryPath returns the directory the history database lives in, or ""
// when history is disabled
func (c *Config) HistoryPath() string {
	if !c.History.Enabled {
		return ""
	}
	return expandHome(c.History.Path)
}

// expandHome expands a leading ~ in a path
func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
