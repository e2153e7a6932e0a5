package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag. Commands reference flags
// by registry key so the same logical flag (e.g. --gateway-url on both
// "serve" and "chat") cannot drift.
type Flag struct {
	// Name is the long flag name (e.g. "gateway-url").
	Name string

	// Shorthand is the one-letter short flag. Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "gateway.url").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet maps registry keys to Flag definitions.
type FlagSet map[string]Flag

// Flag registry keys.
const (
	FlagListen       = "listen"
	FlagGatewayURL   = "gateway-url"
	FlagModel        = "model"
	FlagFootballURL  = "football-url"
	FlagLeague       = "league"
	FlagServerTarget = "server-target"
)

// Flags is the registry shared by every command.
var Flags = FlagSet{
	FlagListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "server.listen",
		Description: "Address for the matchvision server to listen on",
	},
	FlagGatewayURL: {
		Name:        "gateway-url",
		ViperKey:    "gateway.url",
		Description: "Base URL of the OpenAI-compatible LLM gateway",
	},
	FlagModel: {
		Name:        "model",
		Shorthand:   "m",
		ViperKey:    "gateway.model",
		Description: "Model name requested from the LLM gateway",
	},
	FlagFootballURL: {
		Name:        "football-url",
		ViperKey:    "football.url",
		Description: "Base URL of the football data API",
	},
	FlagLeague: {
		Name:        "league",
		ViperKey:    "football.league",
		Description: "League ID used for team statistics",
	},
	FlagServerTarget: {
		Name:        "server-target",
		Shorthand:   "s",
		ViperKey:    "client.server_target",
		Description: "URL of a running matchvision server (empty talks to the gateway directly)",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddIntFlag registers an int flag on cmd from the given FlagSet.
func AddIntFlag(cmd *cobra.Command, fs FlagSet, key string, target *int) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultInt(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().IntVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().IntVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper. Call this in
// PreRunE after InitViper (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

func defaultInt(viperKey string) int {
	v := viper.New()
	setViperDefaults(v)
	return v.GetInt(viperKey)
}
