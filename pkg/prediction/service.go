package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/papercomputeco/matchvision/pkg/football"
	"github.com/papercomputeco/matchvision/pkg/logger"
)

// ErrSameTeam is returned when a team is asked to play itself.
var ErrSameTeam = errors.New("please select two different teams")

// TeamData fetches squads and statistics. *football.Client satisfies it.
type TeamData interface {
	Squad(ctx context.Context, teamID int) ([]football.Player, error)
	TeamStatistics(ctx context.Context, teamID int) json.RawMessage
}

// Service gathers team data and runs the predictor.
type Service struct {
	data      TeamData
	predictor *Predictor
	logger    *slog.Logger
}

// NewService creates a Service. A nil logger discards output.
func NewService(data TeamData, predictor *Predictor, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{data: data, predictor: predictor, logger: log}
}

// Gather fetches both squads and both statistics concurrently. A squad
// failure aborts; missing statistics are left nil.
func (s *Service) Gather(ctx context.Context, home, away football.Team) (Input, error) {
	if home.ID == away.ID {
		return Input{}, ErrSameTeam
	}

	in := Input{HomeTeam: home, AwayTeam: away}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		squad, err := s.data.Squad(gctx, home.ID)
		if err != nil {
			return fmt.Errorf("fetching %s squad: %w", home.Name, err)
		}
		in.HomeSquad = squad
		return nil
	})
	g.Go(func() error {
		squad, err := s.data.Squad(gctx, away.ID)
		if err != nil {
			return fmt.Errorf("fetching %s squad: %w", away.Name, err)
		}
		in.AwaySquad = squad
		return nil
	})
	g.Go(func() error {
		in.HomeStats = s.data.TeamStatistics(gctx, home.ID)
		return nil
	})
	g.Go(func() error {
		in.AwayStats = s.data.TeamStatistics(gctx, away.ID)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Input{}, err
	}

	s.logger.Debug("team data gathered",
		"home", home.Name,
		"away", away.Name,
		"home_players", len(in.HomeSquad),
		"away_players", len(in.AwaySquad),
		"home_stats", in.HomeStats != nil,
		"away_stats", in.AwayStats != nil,
	)

	return in, nil
}

// PredictMatch gathers data for home and away and predicts the fixture.
func (s *Service) PredictMatch(ctx context.Context, home, away football.Team) (*Prediction, error) {
	in, err := s.Gather(ctx, home, away)
	if err != nil {
		return nil, err
	}
	return s.predictor.Predict(ctx, in)
}
