// Package configcmder provides the config command for managing persistent
// matchvision configuration stored in the .matchvision/ directory.
package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/matchvision/pkg/cliui"
	"github.com/papercomputeco/matchvision/pkg/config"
)

const configLongDesc string = `Manage persistent matchvision configuration.

Configuration is stored as config.toml in the .matchvision/ directory and
provides default values for command flags. CLI flags and MATCHVISION_*
environment variables take precedence over config file values. API keys are
read from the environment only (MATCHVISION_GATEWAY_API_KEY,
MATCHVISION_FOOTBALL_API_KEY) and are never written to config.toml.

Keys use dotted notation matching the TOML section structure:
  server.listen,
  gateway.url, gateway.model,
  football.url, football.league,
  client.server_target

Use subcommands to get, set, or list configuration values:
  matchvision config set <key> <value>    Set a configuration value
  matchvision config get <key>            Get a configuration value
  matchvision config list                 List all configuration values

Examples:
  matchvision config set gateway.model google/gemini-3-flash-preview
  matchvision config set football.league 140
  matchvision config get server.listen
  matchvision config list`

const configShortDesc string = "Manage persistent matchvision configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func printTarget(w io.Writer, cfger *config.Configer) {
	target := cfger.GetTarget()
	if target != "" {
		fmt.Fprintf(w, "\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(target),
		)
	} else {
		fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
	}
}
