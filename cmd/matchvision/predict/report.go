package predictcmder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/papercomputeco/matchvision/pkg/football"
	"github.com/papercomputeco/matchvision/pkg/prediction"
)

// FormatReport renders p as markdown.
func FormatReport(home, away football.Team, p *prediction.Prediction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s %d - %d %s\n\n", home.Name, p.PredictedScore.Home, p.PredictedScore.Away, away.Name)
	fmt.Fprintf(&b, "**Win probability:** %s %s%% | Draw %s%% | %s %s%%\n\n",
		home.Name, num(p.WinProbability.Home),
		num(p.WinProbability.Draw),
		away.Name, num(p.WinProbability.Away),
	)
	fmt.Fprintf(&b, "**Confidence:** %s%%\n\n", num(p.Confidence))

	b.WriteString("## Match stats\n\n")
	fmt.Fprintf(&b, "| | %s | %s |\n|---|---|---|\n", home.Name, away.Name)
	statRow(&b, "Possession", p.Stats.Possession, "%")
	statRow(&b, "Passes", p.Stats.Passes, "")
	statRow(&b, "Shots", p.Stats.Shots, "")
	statRow(&b, "Shots on target", p.Stats.ShotsOnTarget, "")
	statRow(&b, "Corners", p.Stats.Corners, "")
	statRow(&b, "Fouls", p.Stats.Fouls, "")
	b.WriteString("\n")

	b.WriteString("## Predicted lineups\n\n")
	lineup(&b, home.Name, p.PredictedLineup.Home)
	lineup(&b, away.Name, p.PredictedLineup.Away)

	b.WriteString("## Players to watch\n\n")
	performers(&b, p.BestPerformers.Home)
	performers(&b, p.BestPerformers.Away)
	b.WriteString("\n")

	if p.MatchAnalysis != "" {
		fmt.Fprintf(&b, "## Analysis\n\n%s\n", p.MatchAnalysis)
	}

	return b.String()
}

func statRow(b *strings.Builder, label string, v prediction.Pair[float64], unit string) {
	fmt.Fprintf(b, "| %s | %s%s | %s%s |\n", label, num(v.Home), unit, num(v.Away), unit)
}

func lineup(b *strings.Builder, team string, l prediction.Lineup) {
	fmt.Fprintf(b, "### %s", team)
	if l.Formation != "" {
		fmt.Fprintf(b, " (%s)", l.Formation)
	}
	b.WriteString("\n\n")

	for _, p := range l.Starting {
		fmt.Fprintf(b, "- #%d %s, %s\n", p.Number, p.Name, p.Position)
	}
	if len(l.Substitutes) > 0 {
		names := make([]string, 0, len(l.Substitutes))
		for _, p := range l.Substitutes {
			names = append(names, p.Name)
		}
		fmt.Fprintf(b, "\n*Bench:* %s\n", strings.Join(names, ", "))
	}
	b.WriteString("\n")
}

func performers(b *strings.Builder, ps []prediction.Performer) {
	for _, p := range ps {
		fmt.Fprintf(b, "- **%s** (%s) %s: %s\n", p.Name, p.Position, num(p.PredictedRating), p.Reason)
	}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
