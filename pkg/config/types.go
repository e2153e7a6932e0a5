package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent matchvision configuration stored as
// config.toml in the .matchvision/ directory.
//
// API keys are deliberately absent: they are read from the environment
// (MATCHVISION_GATEWAY_API_KEY, MATCHVISION_FOOTBALL_API_KEY) through viper.
type Config struct {
	Version  int            `toml:"version"`
	Server   ServerConfig   `toml:"server"`
	Gateway  GatewayConfig  `toml:"gateway"`
	Football FootballConfig `toml:"football"`
	Client   ClientConfig   `toml:"client"`
}

// ServerConfig holds settings for "matchvision serve".
type ServerConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// GatewayConfig points at the OpenAI-compatible LLM gateway.
type GatewayConfig struct {
	URL   string `toml:"url,omitempty"`
	Model string `toml:"model,omitempty"`
}

// FootballConfig points at the football data API.
type FootballConfig struct {
	URL    string `toml:"url,omitempty"`
	League int    `toml:"league,omitempty"`
}

// ClientConfig holds settings for CLI commands that talk to a running
// matchvision server instead of the upstreams directly.
type ClientConfig struct {
	ServerTarget string `toml:"server_target,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
var configKeys = map[string]configKeyInfo{
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
	"gateway.url": {
		get: func(c *Config) string { return c.Gateway.URL },
		set: func(c *Config, v string) error { c.Gateway.URL = v; return nil },
	},
	"gateway.model": {
		get: func(c *Config) string { return c.Gateway.Model },
		set: func(c *Config, v string) error { c.Gateway.Model = v; return nil },
	},
	"football.url": {
		get: func(c *Config) string { return c.Football.URL },
		set: func(c *Config, v string) error { c.Football.URL = v; return nil },
	},
	"football.league": {
		get: func(c *Config) string {
			if c.Football.League == 0 {
				return ""
			}
			return strconv.Itoa(c.Football.League)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for football.league: %w", err)
			}
			if n <= 0 {
				return fmt.Errorf("invalid value for football.league: %d must be positive", n)
			}
			c.Football.League = n
			return nil
		},
	},
	"client.server_target": {
		get: func(c *Config) string { return c.Client.ServerTarget },
		set: func(c *Config, v string) error { c.Client.ServerTarget = v; return nil },
	},
}
