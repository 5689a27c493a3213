// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

// Package config loads application configuration from defaults, an optional
// YAML file, and command-line flags, in increasing order of precedence.
package config

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Defaults for tunables consumed by the auth core.
const (
	DefaultBcryptCost      = 12
	DefaultResetDailyLimit = 2
	DefaultMetricsAddr     = "127.0.0.1:9100"
	DefaultSMTPPort        = 587
)

// Config holds the full application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Auth     AuthConfig     `koanf:"auth"`
	Reset    ResetConfig    `koanf:"reset"`
	SMTP     SMTPConfig     `koanf:"smtp"`
	Policy   PolicyConfig   `koanf:"policy"`
	App      AppConfig      `koanf:"app"`
	Log      LogConfig      `koanf:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL DSN (postgres://...).
	URL string `koanf:"url"`
}

// ServerConfig holds listen addresses.
type ServerConfig struct {
	// MetricsAddr is the metrics/health HTTP address (empty = disabled).
	MetricsAddr string `koanf:"metrics_addr"`
}

// AuthConfig holds credential hashing and token settings.
type AuthConfig struct {
	// BcryptCost is the bcrypt work factor for password hashing.
	BcryptCost int `koanf:"bcrypt_cost"`

	// TokenSecret signs issued JWTs (HS256).
	TokenSecret string `koanf:"token_secret"`

	// TokenTTLMinutes is the lifetime of issued tokens.
	TokenTTLMinutes int `koanf:"token_ttl_minutes"`
}

// ResetConfig holds password-reset lifecycle settings.
type ResetConfig struct {
	// DailyLimit caps reset requests per member per calendar day.
	DailyLimit int `koanf:"daily_limit"`
}

// SMTPConfig holds outbound mail settings.
type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
}

// PolicyConfig holds authorization policy settings.
type PolicyConfig struct {
	// Dir is the directory holding the casbin model and per-role policy
	// files. Empty means the embedded defaults are used.
	Dir string `koanf:"dir"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	// URL is the public base URL used in reset-password links.
	URL string `koanf:"url"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Format is "json" or "text".
	Format string `koanf:"format"`
}

// defaults returns a Config populated with default values.
func defaults() Config {
	return Config{
		Server: ServerConfig{MetricsAddr: DefaultMetricsAddr},
		Auth: AuthConfig{
			BcryptCost:      DefaultBcryptCost,
			TokenTTLMinutes: 60,
		},
		Reset: ResetConfig{DailyLimit: DefaultResetDailyLimit},
		SMTP:  SMTPConfig{Port: DefaultSMTPPort},
		Log:   LogConfig{Format: "json"},
	}
}

// Load builds a Config from defaults, the optional YAML file at path, and
// the given flag set (flags win). An empty path skips the file provider.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := defaults()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks invariants on tunables.
func (c *Config) Validate() error {
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return oops.Code("CONFIG_INVALID").
			With("bcrypt_cost", c.Auth.BcryptCost).
			Errorf("auth.bcrypt_cost must be between 4 and 31")
	}
	if c.Reset.DailyLimit < 1 {
		return oops.Code("CONFIG_INVALID").
			With("daily_limit", c.Reset.DailyLimit).
			Errorf("reset.daily_limit must be at least 1")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("format", c.Log.Format).
			Errorf("log.format must be 'json' or 'text'")
	}
	return nil
}
