package prediction

import (
	"encoding/json"
	"fmt"

	"github.com/papercomputeco/matchvision/pkg/football"
)

// SystemPrompt instructs the model to answer with the Prediction JSON shape.
const SystemPrompt = `You are MatchVision AI, an expert football match prediction engine. You analyze team data, squad information, and statistics to make detailed match predictions.

IMPORTANT: You MUST respond with ONLY valid JSON, no markdown, no code blocks, no extra text. Just the raw JSON object.

Your response must be a JSON object with this exact structure:
{
  "predictedScore": { "home": number, "away": number },
  "winProbability": { "home": number, "draw": number, "away": number },
  "confidence": number (0-100),
  "stats": {
    "possession": { "home": number, "away": number },
    "passes": { "home": number, "away": number },
    "shots": { "home": number, "away": number },
    "shotsOnTarget": { "home": number, "away": number },
    "corners": { "home": number, "away": number },
    "fouls": { "home": number, "away": number }
  },
  "predictedLineup": {
    "home": {
      "formation": "string like 4-3-3",
      "starting": [{ "name": "string", "position": "string", "number": number }],
      "substitutes": [{ "name": "string", "position": "string", "number": number }]
    },
    "away": {
      "formation": "string like 4-3-3",
      "starting": [{ "name": "string", "position": "string", "number": number }],
      "substitutes": [{ "name": "string", "position": "string", "number": number }]
    }
  },
  "bestPerformers": {
    "home": [{ "name": "string", "position": "string", "predictedRating": number, "reason": "string" }],
    "away": [{ "name": "string", "position": "string", "predictedRating": number, "reason": "string" }]
  },
  "matchAnalysis": "string - brief analysis of the match"
}

Rules:
- Use ONLY players from the provided squads
- Starting lineup must have exactly 11 players
- Substitutes should be 5-7 players
- Best performers should be top 3 from each team
- Win probabilities must sum to 100
- Possession must sum to 100
- Be realistic with predictions based on team strength`

// promptPlayer is the subset of a player the model sees.
type promptPlayer struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Number   int    `json:"number"`
	Age      int    `json:"age"`
}

// UserPrompt renders the fixture description for in.
func UserPrompt(in Input) string {
	return fmt.Sprintf(`Predict the match between %s (Home) vs %s (Away).

Home Team Squad: %s

Away Team Squad: %s

Home Team Recent Stats: %s
Away Team Recent Stats: %s

Provide your prediction as a JSON object.`,
		in.HomeTeam.Name,
		in.AwayTeam.Name,
		squadJSON(in.HomeSquad),
		squadJSON(in.AwaySquad),
		statsJSON(in.HomeStats),
		statsJSON(in.AwayStats),
	)
}

func squadJSON(squad []football.Player) string {
	players := make([]promptPlayer, 0, len(squad))
	for _, p := range squad {
		players = append(players, promptPlayer{
			Name:     p.Name,
			Position: p.Position,
			Number:   p.Number,
			Age:      p.Age,
		})
	}
	out, _ := json.Marshal(players)
	return string(out)
}

func statsJSON(stats json.RawMessage) string {
	if len(stats) == 0 || string(stats) == "null" {
		return "{}"
	}
	return string(stats)
}
