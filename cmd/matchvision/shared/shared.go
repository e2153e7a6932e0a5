// Package shared resolves settings and builds the upstream clients used by
// more than one matchvision command.
package shared

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/papercomputeco/matchvision/pkg/config"
	"github.com/papercomputeco/matchvision/pkg/football"
	"github.com/papercomputeco/matchvision/pkg/llm/gateway"
)

var (
	// ErrMissingGatewayKey is returned when MATCHVISION_GATEWAY_API_KEY is unset.
	ErrMissingGatewayKey = errors.New("MATCHVISION_GATEWAY_API_KEY is not configured")

	// ErrMissingFootballKey is returned when MATCHVISION_FOOTBALL_API_KEY is unset.
	ErrMissingFootballKey = errors.New("MATCHVISION_FOOTBALL_API_KEY is not configured")
)

// Settings loads config.toml and the environment for cmd, then binds the
// given registered flags on top.
func Settings(cmd *cobra.Command, flags ...string) (*viper.Viper, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	config.BindRegisteredFlags(v, cmd, config.Flags, flags)
	return v, nil
}

// Gateway builds an LLM gateway client from v. A missing key is not an
// error here; callers decide with RequireGatewayKey.
func Gateway(v *viper.Viper, systemPrompt string, log *slog.Logger) *gateway.Client {
	return gateway.NewClient(gateway.Config{
		BaseURL:      v.GetString(config.Flags[config.FlagGatewayURL].ViperKey),
		APIKey:       v.GetString(config.KeyGatewayAPIKey),
		Model:        v.GetString(config.Flags[config.FlagModel].ViperKey),
		SystemPrompt: systemPrompt,
	}, gateway.WithLogger(log))
}

// Football builds an API-Football client from v.
func Football(v *viper.Viper, log *slog.Logger) *football.Client {
	return football.NewClient(football.Config{
		BaseURL: v.GetString(config.Flags[config.FlagFootballURL].ViperKey),
		APIKey:  v.GetString(config.KeyFootballAPIKey),
		League:  v.GetInt(config.Flags[config.FlagLeague].ViperKey),
	}, football.WithLogger(log))
}

func RequireGatewayKey(v *viper.Viper) error {
	if v.GetString(config.KeyGatewayAPIKey) == "" {
		return ErrMissingGatewayKey
	}
	return nil
}

func RequireFootballKey(v *viper.Viper) error {
	if v.GetString(config.KeyFootballAPIKey) == "" {
		return ErrMissingFootballKey
	}
	return nil
}

// IsTerminal reports whether f is attached to a terminal. Anything that is
// not an *os.File (test buffers, pipes wrapped in readers) is not.
func IsTerminal(f any) bool {
	file, ok := f.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// TerminalWidth returns the column count of f when it is a terminal, or 0.
func TerminalWidth(f any) int {
	file, ok := f.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil {
		return 0
	}
	return width
}
