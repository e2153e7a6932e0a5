package predictcmder_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	predictcmder "github.com/papercomputeco/matchvision/cmd/matchvision/predict"
	"github.com/papercomputeco/matchvision/pkg/football"
	"github.com/papercomputeco/matchvision/pkg/prediction"
)

type stubSearcher struct {
	teams []football.Team
	err   error
}

func (s stubSearcher) SearchTeams(context.Context, string) ([]football.Team, error) {
	return s.teams, s.err
}

var _ = Describe("NewPredictCmd", func() {
	It("takes exactly two team arguments", func() {
		cmd := predictcmder.NewPredictCmd()
		Expect(cmd.Use).To(Equal("predict <home> <away>"))
		Expect(cmd.Args(cmd, []string{"Arsenal"})).To(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"Arsenal", "Chelsea"})).To(Succeed())
	})

	It("registers the upstream flags", func() {
		cmd := predictcmder.NewPredictCmd()
		for _, name := range []string{"gateway-url", "model", "football-url", "league", "json"} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), name)
		}
	})
})

var _ = Describe("FindTeam", func() {
	ctx := context.Background()
	results := []football.Team{
		{ID: 33, Name: "Manchester United"},
		{ID: 50, Name: "Manchester City"},
	}

	It("prefers an exact case-insensitive name match", func() {
		team, err := predictcmder.FindTeam(ctx, stubSearcher{teams: results}, "manchester city")
		Expect(err).NotTo(HaveOccurred())
		Expect(team.ID).To(Equal(50))
	})

	It("falls back to the first result", func() {
		team, err := predictcmder.FindTeam(ctx, stubSearcher{teams: results}, "Manchester")
		Expect(err).NotTo(HaveOccurred())
		Expect(team.ID).To(Equal(33))
	})

	It("fails when nothing matches", func() {
		_, err := predictcmder.FindTeam(ctx, stubSearcher{}, "Atlantis FC")
		Expect(err).To(MatchError(ContainSubstring(`no team matches "Atlantis FC"`)))
	})

	It("rejects a blank query", func() {
		_, err := predictcmder.FindTeam(ctx, stubSearcher{teams: results}, "  ")
		Expect(err).To(HaveOccurred())
	})

	It("wraps search errors", func() {
		boom := errors.New("boom")
		_, err := predictcmder.FindTeam(ctx, stubSearcher{err: boom}, "Arsenal")
		Expect(err).To(MatchError(boom))
	})
})

var _ = Describe("FormatReport", func() {
	home := football.Team{ID: 42, Name: "Arsenal"}
	away := football.Team{ID: 49, Name: "Chelsea"}

	pred := &prediction.Prediction{
		PredictedScore: prediction.Pair[int]{Home: 2, Away: 1},
		WinProbability: prediction.WinProbability{Home: 52, Draw: 26, Away: 22},
		Confidence:     71,
		Stats: prediction.MatchStats{
			Possession: prediction.Pair[float64]{Home: 56, Away: 44},
			Shots:      prediction.Pair[float64]{Home: 14, Away: 9},
		},
		PredictedLineup: prediction.Pair[prediction.Lineup]{
			Home: prediction.Lineup{
				Formation:   "4-3-3",
				Starting:    []prediction.LineupPlayer{{Name: "David Raya", Position: "GK", Number: 22}},
				Substitutes: []prediction.LineupPlayer{{Name: "Kai Havertz"}, {Name: "Leandro Trossard"}},
			},
		},
		BestPerformers: prediction.Pair[[]prediction.Performer]{
			Home: []prediction.Performer{{Name: "Bukayo Saka", Position: "RW", PredictedRating: 8.2, Reason: "In form"}},
		},
		MatchAnalysis: "Arsenal should edge a tight game.",
	}

	It("leads with the predicted score", func() {
		report := predictcmder.FormatReport(home, away, pred)
		Expect(report).To(HavePrefix("# Arsenal 2 - 1 Chelsea\n"))
	})

	It("includes probabilities, stats, lineups and analysis", func() {
		report := predictcmder.FormatReport(home, away, pred)
		Expect(report).To(ContainSubstring("Arsenal 52% | Draw 26% | Chelsea 22%"))
		Expect(report).To(ContainSubstring("**Confidence:** 71%"))
		Expect(report).To(ContainSubstring("| Possession | 56% | 44% |"))
		Expect(report).To(ContainSubstring("| Shots | 14 | 9 |"))
		Expect(report).To(ContainSubstring("### Arsenal (4-3-3)"))
		Expect(report).To(ContainSubstring("- #22 David Raya, GK"))
		Expect(report).To(ContainSubstring("*Bench:* Kai Havertz, Leandro Trossard"))
		Expect(report).To(ContainSubstring("- **Bukayo Saka** (RW) 8.2: In form"))
		Expect(report).To(ContainSubstring("## Analysis\n\nArsenal should edge a tight game."))
	})

	It("omits the formation when the model left it out", func() {
		report := predictcmder.FormatReport(home, away, pred)
		Expect(report).To(ContainSubstring("### Chelsea\n"))
	})
})
