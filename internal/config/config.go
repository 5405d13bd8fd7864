package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// PlaceholderSecret is the known-unsafe default that ships in config
// examples. Running production with it trips a startup warning.
const PlaceholderSecret = "placeholder-secret"

const defaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RateLimitConfig struct {
	Enabled       bool        `yaml:"enabled"`
	WindowSeconds int         `yaml:"window_seconds"`
	Max           int         `yaml:"max"`
	Redis         RedisConfig `yaml:"redis"`
}

type ChallengeConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Secret         string `yaml:"secret"`
	VerifyURL      string `yaml:"verify_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type FloodConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	ChatID  int64  `yaml:"chat_id"`
}

type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Challenge ChallengeConfig `yaml:"challenge"`
	Flood     FloodConfig     `yaml:"flood"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Logging   struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

func LoadConfig() *Config {
	cfg, err := loadConfigFile("config/config.yaml")
	if err != nil {
		panic("Failed to load config.yaml: " + err.Error())
	}
	return cfg
}

func loadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.RateLimit.WindowSeconds == 0 {
		cfg.RateLimit.WindowSeconds = 60
	}
	if cfg.RateLimit.Max == 0 {
		cfg.RateLimit.Max = 5
	}
	if cfg.Challenge.VerifyURL == "" {
		cfg.Challenge.VerifyURL = defaultVerifyURL
	}
	if cfg.Challenge.TimeoutSeconds == 0 {
		cfg.Challenge.TimeoutSeconds = 5
	}
	if cfg.Flood.Burst == 0 && cfg.Flood.RPS > 0 {
		cfg.Flood.Burst = int(cfg.Flood.RPS) * 2
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// Секреты можно задавать через ENV, как в первых деплоях.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("TURNSTILE_SECRET"); v != "" {
		cfg.Challenge.Secret = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

func (c *Config) ChallengeTimeout() time.Duration {
	return time.Duration(c.Challenge.TimeoutSeconds) * time.Second
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
