package config

import (
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Headlines struct {
		Files []string `yaml:"files" default:"[\"temp_offerings_2021_anon.tsv\",\"temp_offerings_2022_anon.tsv\",\"temp_offerings_2023_anon.tsv\",\"temp_offerings_2024_anon.tsv\"]" validate:"min=1,dive,required"`
	} `yaml:"headlines"`
	Prices struct {
		Source      string `yaml:"source" default:"tsv" validate:"oneof=tsv sqlite alpaca"`
		Path        string `yaml:"path" default:"temp_prices_2021_2024_anon.tsv"`
		SQLitePath  string `yaml:"sqlite_path" validate:"required_if=Source sqlite"`
		SQLiteQuery string `yaml:"sqlite_query"`
		Alpaca      struct {
			APIKey       string `yaml:"api_key"`
			APISecret    string `yaml:"api_secret"`
			BaseURL      string `yaml:"base_url"`
			Feed         string `yaml:"feed" default:"iex"`
			LookbackDays int    `yaml:"lookback_days" default:"45" validate:"gte=30"`
		} `yaml:"alpaca"`
	} `yaml:"prices"`
	Output struct {
		Dir string `yaml:"dir" default:"."`
	} `yaml:"output"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stderr"`
	} `yaml:"log"`
	Schedule struct {
		Cron     string `yaml:"cron" default:"0 5 16 * * 1-5"`
		Timezone string `yaml:"timezone" default:"America/New_York"`
		Save     *bool  `yaml:"save" default:"true"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

var validate = validator.New()

// Load reads config from a YAML file, then .env and environment variable
// overrides, then fills defaults. A missing file or .env is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "read config")
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}
	applyEnv(cfg)

	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "apply defaults")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HEADLINE_FILES"); v != "" {
		cfg.Headlines.Files = splitList(v)
	}
	if v := os.Getenv("PRICES_SOURCE"); v != "" {
		cfg.Prices.Source = v
	}
	if v := os.Getenv("PRICES_PATH"); v != "" {
		cfg.Prices.Path = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Prices.SQLitePath = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Prices.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Prices.Alpaca.APISecret = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks field rules and the settings each price source needs.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "config validation")
	}
	if c.Prices.Source == "tsv" && c.Prices.Path == "" {
		return errors.New("prices.path is required for the tsv source")
	}
	if c.Prices.Source == "alpaca" && (c.Prices.Alpaca.APIKey == "" || c.Prices.Alpaca.APISecret == "") {
		return errors.New("prices.alpaca.api_key and api_secret are required for the alpaca source")
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return errors.Wrapf(err, "schedule.timezone %q", c.Schedule.Timezone)
	}
	return nil
}

// SaveScheduled reports whether scheduled scans write their CSV.
func (c *Config) SaveScheduled() bool {
	return c.Schedule.Save == nil || *c.Schedule.Save
}

// TelegramEnabled reports whether notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
