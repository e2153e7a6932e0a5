package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/matchvision/pkg/dotdir"
)

// Environment-only keys. They have no TOML representation so secrets never
// land in config.toml.
const (
	KeyGatewayAPIKey  = "gateway.api_key"
	KeyFootballAPIKey = "football.api_key"
)

// InitViper creates and returns a configured *viper.Viper.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (MATCHVISION_SERVER_LISTEN, MATCHVISION_GATEWAY_API_KEY, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	dir, exists, err := dotdir.NewManager().Lookup(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}
	if exists {
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			// Config file not found errors are fine, defaults will apply.
			if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("MATCHVISION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("server.listen", d.Server.Listen)

	v.SetDefault("gateway.url", d.Gateway.URL)
	v.SetDefault("gateway.model", d.Gateway.Model)
	v.SetDefault(KeyGatewayAPIKey, "")

	v.SetDefault("football.url", d.Football.URL)
	v.SetDefault("football.league", d.Football.League)
	v.SetDefault(KeyFootballAPIKey, "")

	v.SetDefault("client.server_target", d.Client.ServerTarget)
}
