package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"stockseries/internal/provider"
	"stockseries/internal/series"
)

type AlphaVantage struct {
	APIKey            string `json:"api_key" yaml:"api_key"`
	Endpoint          string `json:"endpoint" yaml:"endpoint"`
	Function          string `json:"function" yaml:"function"`
	Symbol            string `json:"symbol" yaml:"symbol"`
	Interval          string `json:"interval" yaml:"interval"`
	RequestTimeoutSec int    `json:"request_timeout_sec" yaml:"request_timeout_sec"`
}

type Normalize struct {
	// Policy is "fail-fast" or "skip-invalid".
	Policy string `json:"policy" yaml:"policy"`
	// Timezone is an IANA name raw timestamps are read in.
	Timezone string `json:"timezone" yaml:"timezone"`
}

type Logging struct {
	Level      string `json:"level" yaml:"level"`
	Format     string `json:"format" yaml:"format"`
	Output     string `json:"output" yaml:"output"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days"`
}

type Output struct {
	Format string `json:"format" yaml:"format"`
}

type Config struct {
	AlphaVantage AlphaVantage `json:"alphavantage" yaml:"alphavantage"`
	Normalize    Normalize    `json:"normalize" yaml:"normalize"`
	Logging      Logging      `json:"logging" yaml:"logging"`
	Output       Output       `json:"output" yaml:"output"`
}

func Default() Config {
	return Config{
		AlphaVantage: AlphaVantage{
			Endpoint:          "https://www.alphavantage.co/query",
			Function:          provider.FunctionIntraday,
			Symbol:            "TEAM",
			Interval:          provider.Interval60Min,
			RequestTimeoutSec: 15,
		},
		Normalize: Normalize{Policy: series.FailFast.String(), Timezone: "UTC"},
		Logging:   Logging{Level: "info", Format: "text", Output: "stderr"},
		Output:    Output{Format: "table"},
	}
}

// Load reads config from path. If path is empty or file does not exist,
// it returns defaults. Files ending in .yaml or .yml are parsed as YAML,
// anything else as JSON. Environment variables override select fields.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := unmarshal(path, b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func unmarshal(path string, b []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return json.Unmarshal(b, cfg)
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.AlphaVantage.APIKey = v
	} else if v := os.Getenv("API_KEY"); v != "" {
		cfg.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("ALPHAVANTAGE_ENDPOINT"); v != "" { cfg.AlphaVantage.Endpoint = v }
	if v := os.Getenv("FUNCTION"); v != "" { cfg.AlphaVantage.Function = v }
	if v := os.Getenv("SYMBOL"); v != "" { cfg.AlphaVantage.Symbol = v }
	if v := os.Getenv("INTERVAL"); v != "" { cfg.AlphaVantage.Interval = v }
	if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
		var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.AlphaVantage.RequestTimeoutSec = x }
	}
	if v := os.Getenv("NORMALIZE_POLICY"); v != "" { cfg.Normalize.Policy = v }
	if v := os.Getenv("TIMEZONE"); v != "" { cfg.Normalize.Timezone = v }
	if v := os.Getenv("LOG_LEVEL"); v != "" { cfg.Logging.Level = v }
	if v := os.Getenv("LOG_FORMAT"); v != "" { cfg.Logging.Format = v }
	if v := os.Getenv("LOG_OUTPUT"); v != "" { cfg.Logging.Output = v }
	if v := os.Getenv("OUTPUT_FORMAT"); v != "" { cfg.Output.Format = v }
}

// Request builds the provider request described by the config.
func (c Config) Request() provider.Request {
	return provider.NewRequest(c.AlphaVantage.Function, c.AlphaVantage.Symbol, c.AlphaVantage.Interval)
}

// Validate checks the fields the pipeline cannot run without. The API key is
// not checked; an empty key is sent as is.
func (c Config) Validate() error {
	if err := c.Request().Validate(); err != nil {
		return err
	}
	if c.AlphaVantage.Endpoint == "" {
		return fmt.Errorf("alphavantage.endpoint is required")
	}
	if c.AlphaVantage.RequestTimeoutSec <= 0 {
		return fmt.Errorf("alphavantage.request_timeout_sec must be positive")
	}
	if _, err := series.ParsePolicy(c.Normalize.Policy); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Normalize.Timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Normalize.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Normalize.Timezone)
	if err != nil {
		return nil, fmt.Errorf("normalize.timezone: %w", err)
	}
	return loc, nil
}
