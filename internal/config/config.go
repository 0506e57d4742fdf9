// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that carry secrets. They win over the YAML file.
const (
	EnvZadarmaKey    = "ZADARMA_API_KEY"
	EnvZadarmaSecret = "ZADARMA_API_SECRET"
	EnvTelegramToken = "TELEGRAM_TOKEN"
)

// Compiled-in intercom numbers.
const (
	DefaultEntryNumber    = "101"
	DefaultExitNumber     = "102"
	DefaultInternalNumber = "+380635154798"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token   string `yaml:"token"`
	Mode    string `yaml:"mode"`    // polling only
	Workers int    `yaml:"workers"` // concurrent update handlers
	Lang    string `yaml:"lang"`    // locale file under i18n/locales
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod

	// File enables a rotating log file in addition to stdout.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type AdminConfig struct {
	Port int `yaml:"port"` // 0 disables /health and /metrics
}

type ZadarmaConfig struct {
	Key     string        `yaml:"key"`
	Secret  string        `yaml:"secret"`
	Sandbox bool          `yaml:"sandbox"`
	Timeout time.Duration `yaml:"timeout"`
	BaseURL string        `yaml:"base_url"` // overrides production/sandbox, for mocks
}

type IntercomConfig struct {
	InternalNumber string `yaml:"internal_number"`
	EntryNumber    string `yaml:"entry_number"`
	ExitNumber     string `yaml:"exit_number"`
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Zadarma  ZadarmaConfig  `yaml:"zadarma"`
	Intercom IntercomConfig `yaml:"intercom"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path when it exists, fills defaults and
// lets the environment override secrets. An absent file is fine: the bot
// can run from environment variables alone.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
			// env-only deployment
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	applyEnv(&cfg, os.LookupEnv)
	applyDefaults(&cfg)

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot.token or %s is required", EnvTelegramToken)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&cfg.Zadarma.Key, EnvZadarmaKey)
	set(&cfg.Zadarma.Secret, EnvZadarmaSecret)
	set(&cfg.Bot.Token, EnvTelegramToken)
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 4
	}
	if cfg.Bot.Mode == "" {
		cfg.Bot.Mode = "polling"
	}
	if cfg.Bot.Lang == "" {
		cfg.Bot.Lang = "en"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.File != "" && cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = 50
	}
	if cfg.Zadarma.Timeout <= 0 {
		cfg.Zadarma.Timeout = 15 * time.Second
	}
	if cfg.Intercom.InternalNumber == "" {
		cfg.Intercom.InternalNumber = DefaultInternalNumber
	}
	if cfg.Intercom.EntryNumber == "" {
		cfg.Intercom.EntryNumber = DefaultEntryNumber
	}
	if cfg.Intercom.ExitNumber == "" {
		cfg.Intercom.ExitNumber = DefaultExitNumber
	}
}
