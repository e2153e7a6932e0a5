// Package teamscmder provides the teams command for searching clubs.
package teamscmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/matchvision/cmd/matchvision/shared"
	"github.com/papercomputeco/matchvision/pkg/cliui"
	"github.com/papercomputeco/matchvision/pkg/config"
	"github.com/papercomputeco/matchvision/pkg/football"
	"github.com/papercomputeco/matchvision/pkg/logger"
)

type TeamsCommander struct {
	footballURL string
	jsonOutput  bool
	debug       bool

	logger *slog.Logger
}

const teamsLongDesc string = `Search teams by name.

Prints the ID, name and home city (or country) of every team matching the
query. Needs MATCHVISION_FOOTBALL_API_KEY.

Examples:
  matchvision teams arsenal
  matchvision teams "manchester" --json`

const teamsShortDesc string = "Search teams by name"

func NewTeamsCmd() *cobra.Command {
	cmder := &TeamsCommander{}

	cmd := &cobra.Command{
		Use:   "teams <query>",
		Short: teamsShortDesc,
		Long:  teamsLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			v, err := shared.Settings(cmd, config.FlagFootballURL)
			if err != nil {
				return err
			}

			return cmder.run(cmd.Context(), v, args[0], cmd.OutOrStdout())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagFootballURL, &cmder.footballURL)
	cmd.Flags().BoolVar(&cmder.jsonOutput, "json", false, "Print results as JSON")

	return cmd
}

func (c *TeamsCommander) run(ctx context.Context, v *viper.Viper, query string, out io.Writer) error {
	c.logger = logger.ForCLI(c.debug)

	if err := shared.RequireFootballKey(v); err != nil {
		return err
	}

	teams, err := shared.Football(v, c.logger).SearchTeams(ctx, query)
	if err != nil {
		return fmt.Errorf("searching teams: %w", err)
	}

	if c.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(teams)
	}

	PrintTeams(out, teams)
	return nil
}

// PrintTeams writes one aligned row per team.
func PrintTeams(w io.Writer, teams []football.Team) {
	if len(teams) == 0 {
		fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No teams found."))
		return
	}

	idWidth, nameWidth := 0, 0
	for _, t := range teams {
		idWidth = max(idWidth, len(strconv.Itoa(t.ID)))
		nameWidth = max(nameWidth, len(t.Name))
	}

	fmt.Fprintln(w)
	for _, t := range teams {
		fmt.Fprintf(w, "  %s  %s  %s\n",
			cliui.IDStyle.Render(fmt.Sprintf("%*d", idWidth, t.ID)),
			cliui.NameStyle.Render(fmt.Sprintf("%-*s", nameWidth, t.Name)),
			cliui.DimStyle.Render(t.Country),
		)
	}
	fmt.Fprintln(w)
}
