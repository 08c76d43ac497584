// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Trading TradingConfig `mapstructure:"trading"`
	Storage StorageConfig `mapstructure:"storage"`
	Coach   CoachConfig   `mapstructure:"coach"`
	Market  MarketConfig  `mapstructure:"market"`
	UI      UIConfig      `mapstructure:"ui"`
	Notify  NotifyConfig  `mapstructure:"notifications"`
}

// TradingConfig holds trading-simulator configuration.
type TradingConfig struct {
	DefaultUser    string  `mapstructure:"default_user"`
	InitialBalance float64 `mapstructure:"initial_balance"`
	LargeTradeQty  int     `mapstructure:"large_trade_qty"` // qty threshold for bonus XP
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// CoachConfig holds behavioral-coach configuration.
type CoachConfig struct {
	MaxInterventions int `mapstructure:"max_interventions"`
	EmotionHistory   int `mapstructure:"emotion_history"`
	RecentWindow     int `mapstructure:"recent_window"`
}

// MarketConfig holds market-data collaborator configuration.
type MarketConfig struct {
	QuoteTimeout  time.Duration `mapstructure:"quote_timeout"`
	DefaultSuffix string        `mapstructure:"default_suffix"` // exchange suffix for bare symbols
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// NotifyConfig holds notification configuration.
type NotifyConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Terminal bool          `mapstructure:"terminal"`
	Webhook  WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig holds webhook notification configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/equiverse"
	}
	return filepath.Join(home, ".config", "equiverse")
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Trading: TradingConfig{
			DefaultUser:    "guest",
			InitialBalance: 100000,
			LargeTradeQty:  100,
		},
		Storage: StorageConfig{
			DBPath: filepath.Join(DefaultConfigDir(), "equiverse.db"),
		},
		Coach: CoachConfig{
			MaxInterventions: 5,
			EmotionHistory:   100,
			RecentWindow:     5,
		},
		Market: MarketConfig{
			QuoteTimeout:  10 * time.Second,
			DefaultSuffix: ".NS",
		},
		UI: UIConfig{
			ColorEnabled: true,
			DateFormat:   "2006-01-02",
		},
		Notify: NotifyConfig{
			Enabled:  true,
			Terminal: true,
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetDefault("trading.default_user", cfg.Trading.DefaultUser)
	v.SetDefault("trading.initial_balance", cfg.Trading.InitialBalance)
	v.SetDefault("trading.large_trade_qty", cfg.Trading.LargeTradeQty)
	v.SetDefault("storage.db_path", cfg.Storage.DBPath)
	v.SetDefault("coach.max_interventions", cfg.Coach.MaxInterventions)
	v.SetDefault("coach.emotion_history", cfg.Coach.EmotionHistory)
	v.SetDefault("coach.recent_window", cfg.Coach.RecentWindow)
	v.SetDefault("market.quote_timeout", cfg.Market.QuoteTimeout)
	v.SetDefault("market.default_suffix", cfg.Market.DefaultSuffix)
	v.SetDefault("ui.color_enabled", cfg.UI.ColorEnabled)
	v.SetDefault("ui.date_format", cfg.UI.DateFormat)
	v.SetDefault("notifications.enabled", cfg.Notify.Enabled)
	v.SetDefault("notifications.terminal", cfg.Notify.Terminal)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.yaml: %w", err)
		}
		// Missing file is fine: run on defaults, write a template for next time.
		if err := writeTemplate(configDir); err != nil {
			return nil, fmt.Errorf("writing config template: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func writeTemplate(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	template := `# EquiVerse configuration
trading:
  default_user: guest
  initial_balance: 100000
  large_trade_qty: 100

storage:
  db_path: ` + filepath.Join(configDir, "equiverse.db") + `

coach:
  max_interventions: 5
  emotion_history: 100
  recent_window: 5

market:
  quote_timeout: 10s
  default_suffix: .NS

ui:
  color_enabled: true
  date_format: "2006-01-02"

notifications:
  enabled: true
  terminal: true
  webhook:
    enabled: false
    url: ""
`

	path := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(template), 0644)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EQUIVERSE_USER"); v != "" {
		cfg.Trading.DefaultUser = v
	}
	if v := os.Getenv("EQUIVERSE_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("EQUIVERSE_WEBHOOK_URL"); v != "" {
		cfg.Notify.Webhook.URL = v
		cfg.Notify.Webhook.Enabled = true
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Trading.InitialBalance < 0 {
		return fmt.Errorf("initial_balance must be non-negative")
	}
	if c.Coach.MaxInterventions <= 0 {
		return fmt.Errorf("max_interventions must be positive")
	}
	if c.Coach.EmotionHistory <= 0 {
		return fmt.Errorf("emotion_history must be positive")
	}
	if c.Trading.DefaultUser == "" {
		return fmt.Errorf("default_user must not be empty")
	}
	return nil
}
