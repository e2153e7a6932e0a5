// Package prediction builds match predictions: it assembles the prompt from
// squad and statistics data, asks the LLM gateway for a structured JSON
// answer and decodes it.
package prediction

import (
	"encoding/json"

	"github.com/papercomputeco/matchvision/pkg/football"
)

// Pair holds a home and away value.
type Pair[T any] struct {
	Home T `json:"home"`
	Away T `json:"away"`
}

// WinProbability is the percentage chance of each outcome.
type WinProbability struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// MatchStats are the predicted match statistics.
type MatchStats struct {
	Possession    Pair[float64] `json:"possession"`
	Passes        Pair[float64] `json:"passes"`
	Shots         Pair[float64] `json:"shots"`
	ShotsOnTarget Pair[float64] `json:"shotsOnTarget"`
	Corners       Pair[float64] `json:"corners"`
	Fouls         Pair[float64] `json:"fouls"`
}

// LineupPlayer is a player in a predicted lineup.
type LineupPlayer struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Number   int    `json:"number"`
}

// Lineup is one side's predicted lineup.
type Lineup struct {
	Formation   string         `json:"formation"`
	Starting    []LineupPlayer `json:"starting"`
	Substitutes []LineupPlayer `json:"substitutes"`
}

// Performer is a player expected to stand out.
type Performer struct {
	Name            string  `json:"name"`
	Position        string  `json:"position"`
	PredictedRating float64 `json:"predictedRating"`
	Reason          string  `json:"reason"`
}

// Prediction is the structured result returned by the model.
type Prediction struct {
	PredictedScore  Pair[int]         `json:"predictedScore"`
	WinProbability  WinProbability    `json:"winProbability"`
	Confidence      float64           `json:"confidence"`
	Stats           MatchStats        `json:"stats"`
	PredictedLineup Pair[Lineup]      `json:"predictedLineup"`
	BestPerformers  Pair[[]Performer] `json:"bestPerformers"`
	MatchAnalysis   string            `json:"matchAnalysis"`
}

// Input is everything the model is told about a fixture. It is also the
// request body of the predict-match route.
type Input struct {
	HomeTeam  football.Team     `json:"homeTeam"`
	AwayTeam  football.Team     `json:"awayTeam"`
	HomeSquad []football.Player `json:"homeSquad"`
	AwaySquad []football.Player `json:"awaySquad"`
	HomeStats json.RawMessage   `json:"homeStats,omitempty"`
	AwayStats json.RawMessage   `json:"awayStats,omitempty"`
}
