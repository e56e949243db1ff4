// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Launch modes for the bot process.
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Config holds all application configuration.
type Config struct {
	Bot   BotConfig   `mapstructure:"bot"`
	API   APIConfig   `mapstructure:"api"`
	Redis RedisConfig `mapstructure:"redis"`
	Game  GameConfig  `mapstructure:"game"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token      string `mapstructure:"token"`
	Username   string `mapstructure:"username"`
	Mode       string `mapstructure:"mode"`
	WebhookURL string `mapstructure:"webhook_url"`
	Listen     string `mapstructure:"listen"`
	Secret     string `mapstructure:"secret"`
}

// APIConfig holds game service client configuration.
type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Key          string        `mapstructure:"key"`
	RetryCycles  int           `mapstructure:"retry_cycles"`
	RetryTimeout time.Duration `mapstructure:"retry_timeout"`
}

// RedisConfig holds session store connection configuration.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GameConfig holds game parameters.
type GameConfig struct {
	MinPlayers     int           `mapstructure:"min_players"`
	MaxPlayers     int           `mapstructure:"max_players"`
	DefaultPlayers int           `mapstructure:"default_players"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. BOT_TOKEN, API_BASE_URL, REDIS_ADDR.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - env vars can provide all config.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.mode", ModePolling)
	v.SetDefault("bot.listen", ":8080")

	v.SetDefault("api.retry_cycles", 3)
	v.SetDefault("api.retry_timeout", "1s")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("game.min_players", 3)
	v.SetDefault("game.max_players", 8)
	v.SetDefault("game.default_players", 4)
	v.SetDefault("game.poll_interval", "3s")
}

func (c *Config) validate() error {
	if c.Bot.Mode != ModePolling && c.Bot.Mode != ModeWebhook {
		return fmt.Errorf("unknown bot mode %q", c.Bot.Mode)
	}
	if c.Bot.Mode == ModeWebhook && c.Bot.WebhookURL == "" {
		return fmt.Errorf("bot.webhook_url is required in webhook mode")
	}
	if c.Game.MinPlayers < 3 || c.Game.MaxPlayers < c.Game.MinPlayers {
		return fmt.Errorf("invalid player bounds [%d, %d]", c.Game.MinPlayers, c.Game.MaxPlayers)
	}
	if c.Game.DefaultPlayers < c.Game.MinPlayers || c.Game.DefaultPlayers > c.Game.MaxPlayers {
		return fmt.Errorf("default player amount %d outside bounds [%d, %d]",
			c.Game.DefaultPlayers, c.Game.MinPlayers, c.Game.MaxPlayers)
	}
	return nil
}
