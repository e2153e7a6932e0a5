// Package predictcmder provides the predict command, which gathers squad
// and statistics data for a fixture and asks the model for a prediction.
package predictcmder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/matchvision/cmd/matchvision/shared"
	"github.com/papercomputeco/matchvision/pkg/cliui"
	"github.com/papercomputeco/matchvision/pkg/config"
	"github.com/papercomputeco/matchvision/pkg/football"
	"github.com/papercomputeco/matchvision/pkg/logger"
	"github.com/papercomputeco/matchvision/pkg/prediction"
)

type PredictCommander struct {
	gatewayURL  string
	model       string
	footballURL string
	league      int
	jsonOutput  bool
	debug       bool

	logger *slog.Logger
}

const predictLongDesc string = `Predict a fixture between two teams.

Each team argument is a search query; the best match is used. Squads and
season statistics are fetched from API-Football, then the model predicts the
score, win probabilities, match stats, lineups and players to watch.

Needs MATCHVISION_GATEWAY_API_KEY and MATCHVISION_FOOTBALL_API_KEY.

Examples:
  matchvision predict Arsenal Chelsea
  matchvision predict "Real Madrid" Barcelona --league 140
  matchvision predict Liverpool Everton --json`

const predictShortDesc string = "Predict a fixture between two teams"

var predictFlags = []string{
	config.FlagGatewayURL,
	config.FlagModel,
	config.FlagFootballURL,
	config.FlagLeague,
}

func NewPredictCmd() *cobra.Command {
	cmder := &PredictCommander{}

	cmd := &cobra.Command{
		Use:   "predict <home> <away>",
		Short: predictShortDesc,
		Long:  predictLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			v, err := shared.Settings(cmd, predictFlags...)
			if err != nil {
				return err
			}

			return cmder.run(cmd.Context(), v, args[0], args[1], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagGatewayURL, &cmder.gatewayURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.Flags, config.FlagFootballURL, &cmder.footballURL)
	config.AddIntFlag(cmd, config.Flags, config.FlagLeague, &cmder.league)
	cmd.Flags().BoolVar(&cmder.jsonOutput, "json", false, "Print the prediction as JSON")

	return cmd
}

func (c *PredictCommander) run(ctx context.Context, v *viper.Viper, homeQuery, awayQuery string, out, progress io.Writer) error {
	c.logger = logger.ForCLI(c.debug)

	if err := shared.RequireFootballKey(v); err != nil {
		return err
	}
	if err := shared.RequireGatewayKey(v); err != nil {
		return err
	}

	fb := shared.Football(v, c.logger)
	predictor := prediction.NewPredictor(shared.Gateway(v, "", c.logger), c.logger)
	service := prediction.NewService(fb, predictor, c.logger)

	var home, away football.Team
	err := cliui.Step(progress, "Finding teams", func() error {
		var err error
		if home, err = FindTeam(ctx, fb, homeQuery); err != nil {
			return err
		}
		away, err = FindTeam(ctx, fb, awayQuery)
		return err
	})
	if err != nil {
		return err
	}

	var in prediction.Input
	err = cliui.Step(progress, fmt.Sprintf("Fetching %s and %s squads", home.Name, away.Name), func() error {
		var err error
		in, err = service.Gather(ctx, home, away)
		return err
	})
	if err != nil {
		return err
	}

	var pred *prediction.Prediction
	err = cliui.Step(progress, "Predicting", func() error {
		var err error
		pred, err = predictor.Predict(ctx, in)
		return err
	})
	if err != nil {
		return err
	}

	if c.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(pred)
	}

	report := FormatReport(home, away, pred)
	if shared.IsTerminal(out) {
		rendered, err := cliui.RenderMarkdown(report, shared.TerminalWidth(out))
		if err != nil {
			c.logger.Debug("markdown rendering failed", "error", err)
		}
		report = rendered
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, report)
	return nil
}

// TeamSearcher finds teams by name.
type TeamSearcher interface {
	SearchTeams(ctx context.Context, query string) ([]football.Team, error)
}

// FindTeam returns the team whose name equals query, ignoring case, or else
// the first search result.
func FindTeam(ctx context.Context, teams TeamSearcher, query string) (football.Team, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return football.Team{}, errors.New("team name is required")
	}

	results, err := teams.SearchTeams(ctx, query)
	if err != nil {
		return football.Team{}, fmt.Errorf("searching %q: %w", query, err)
	}
	if len(results) == 0 {
		return football.Team{}, fmt.Errorf("no team matches %q", query)
	}

	for _, t := range results {
		if strings.EqualFold(t.Name, query) {
			return t, nil
		}
	}
	return results[0], nil
}
