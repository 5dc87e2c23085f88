// Package config owns every environment read in the process: main constructs
// one Config at startup and threads it into the components that need it.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Auth struct {
		// Shared secret expected in X-Gateway-Key from the upstream gateway.
		// Empty disables the check (local development).
		GatewayKey string `yaml:"gateway_key"`
	} `yaml:"auth"`

	HTTP struct {
		RatePerSecond float64 `yaml:"rate_per_second"`
		RateBurst     int     `yaml:"rate_burst"`
	} `yaml:"http"`

	DB struct {
		Path          string `yaml:"path"`
		BusyTimeoutMS int    `yaml:"busy_timeout_ms"`
	} `yaml:"db"`

	Listing struct {
		DefaultLimit int `yaml:"default_limit"`
		MaxLimit     int `yaml:"max_limit"`
	} `yaml:"listing"`

	History struct {
		DefaultLimit int `yaml:"default_limit"`
		MaxLimit     int `yaml:"max_limit"`
	} `yaml:"history"`
}

func Default() Config {
	var cfg Config
	cfg.App.Port = 38492
	cfg.App.DataDir = "."
	cfg.HTTP.RatePerSecond = 25
	cfg.HTTP.RateBurst = 50
	cfg.DB.Path = "jobledger.db"
	cfg.DB.BusyTimeoutMS = 5000
	cfg.Listing.DefaultLimit = 25
	cfg.Listing.MaxLimit = 200
	cfg.History.DefaultLimit = 50
	cfg.History.MaxLimit = 200
	return cfg
}

func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Overlay applies environment overrides on top of the file values.
func Overlay(cfg *Config) {
	if v := os.Getenv("JOBLEDGER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = p
		}
	}
	if v := os.Getenv("JOBLEDGER_DATA_DIR"); v != "" {
		cfg.App.DataDir = v
	}
	if v := os.Getenv("JOBLEDGER_GATEWAY_KEY"); v != "" {
		cfg.Auth.GatewayKey = v
	}
	if v := os.Getenv("JOBLEDGER_DB_PATH"); v != "" {
		cfg.DB.Path = v
	}
}
