// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-passkey-server.
//
// go-passkey-server is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package config loads server configuration from a yaml file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jeremyhahn/go-passkey-server/pkg/passkey"
	"gopkg.in/yaml.v3"
)

// DefaultSessionSecret is used when no secret is configured. It is only
// acceptable for local development.
const DefaultSessionSecret = "change_this_phrase"

// Config represents the complete server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Session  SessionConfig  `yaml:"session"`
	Logging  LoggingConfig  `yaml:"logging"`
	Passkey  passkey.Config `yaml:"passkey"`
	TokenTTL string         `yaml:"token_ttl"`
}

// ServerConfig contains server-level settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SessionConfig controls the ceremony session cookie.
type SessionConfig struct {
	// Secret signs the session cookie.
	Secret string `yaml:"secret"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads configuration from the given path. A missing file is not an
// error; defaults and environment overrides still apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.setDefaults()
	return cfg, nil
}

// applyEnv overlays environment variables on the file configuration.
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		c.Session.Secret = v
	}
	if v := os.Getenv("PASSKEY_RP_ID"); v != "" {
		c.Passkey.RPID = v
	}
	if v := os.Getenv("PASSKEY_RP_NAME"); v != "" {
		c.Passkey.RPDisplayName = v
	}
	if v := os.Getenv("PASSKEY_RP_ORIGIN"); v != "" {
		c.Passkey.RPOrigins = []string{v}
	}
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Session.Secret == "" {
		c.Session.Secret = DefaultSessionSecret
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Passkey.RPID == "" {
		c.Passkey.RPID = "localhost"
	}
	if len(c.Passkey.RPOrigins) == 0 {
		c.Passkey.RPOrigins = []string{fmt.Sprintf("http://%s:%d", c.Passkey.RPID, c.Server.Port)}
	}
	c.Passkey.SetDefaults()
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
