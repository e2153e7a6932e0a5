package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/matchvision/pkg/football"
	"github.com/papercomputeco/matchvision/pkg/prediction"
)

var (
	searchTeamsToolName    = "search_teams"
	searchTeamsDescription = "Search football teams by name. Returns team IDs, names, logos and home city or country. Use the IDs with predict_match."

	predictMatchToolName    = "predict_match"
	predictMatchDescription = "Predict a football match between two teams given their IDs. Fetches both squads and current-season statistics and returns the predicted score, win probabilities, match stats, lineups, best performers and an analysis."
)

// SearchTeamsInput represents the input arguments for the search_teams tool.
type SearchTeamsInput struct {
	Query string `json:"query" jsonschema:"team name or part of it, e.g. arsenal"`
}

// SearchTeamsOutput represents the output of the search_teams tool.
type SearchTeamsOutput struct {
	Query string          `json:"query"`
	Teams []football.Team `json:"teams"`
	Count int             `json:"count"`
}

// PredictMatchInput represents the input arguments for the predict_match tool.
type PredictMatchInput struct {
	HomeTeamID int    `json:"home_team_id" jsonschema:"API-Football ID of the home team"`
	AwayTeamID int    `json:"away_team_id" jsonschema:"API-Football ID of the away team"`
	HomeTeam   string `json:"home_team,omitempty" jsonschema:"display name of the home team"`
	AwayTeam   string `json:"away_team,omitempty" jsonschema:"display name of the away team"`
}

func (s *Server) handleSearchTeams(ctx context.Context, _ *mcp.CallToolRequest, input SearchTeamsInput) (*mcp.CallToolResult, SearchTeamsOutput, error) {
	logger := s.config.Logger

	query := strings.TrimSpace(input.Query)
	if query == "" {
		return errorResult("query is required"), SearchTeamsOutput{}, nil
	}

	logger.Debug("MCP team search", "query", query)

	teams, err := s.config.Teams.SearchTeams(ctx, query)
	if err != nil {
		logger.Error("failed to search teams", "error", err)
		return errorResult(fmt.Sprintf("Failed to search teams: %v", err)), SearchTeamsOutput{}, nil
	}

	output := SearchTeamsOutput{
		Query: query,
		Teams: teams,
		Count: len(teams),
	}
	return jsonResult(s, output)
}

func (s *Server) handlePredictMatch(ctx context.Context, _ *mcp.CallToolRequest, input PredictMatchInput) (*mcp.CallToolResult, prediction.Prediction, error) {
	logger := s.config.Logger

	if input.HomeTeamID <= 0 || input.AwayTeamID <= 0 {
		return errorResult("home_team_id and away_team_id are required"), prediction.Prediction{}, nil
	}

	home := football.Team{ID: input.HomeTeamID, Name: teamName(input.HomeTeam, input.HomeTeamID)}
	away := football.Team{ID: input.AwayTeamID, Name: teamName(input.AwayTeam, input.AwayTeamID)}

	logger.Debug("MCP match prediction", "home", home.Name, "away", away.Name)

	result, err := s.config.Matches.PredictMatch(ctx, home, away)
	if err != nil {
		logger.Error("failed to predict match", "error", err)
		return errorResult(fmt.Sprintf("Failed to predict match: %v", err)), prediction.Prediction{}, nil
	}

	return jsonResult(s, *result)
}

// jsonResult returns output as structured content plus a JSON text block
// for clients that only read text content.
func jsonResult[T any](s *Server, output T) (*mcp.CallToolResult, T, error) {
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		s.config.Logger.Error("failed to marshal tool output", "error", err)
		var zero T
		return errorResult(fmt.Sprintf("Failed to serialize results: %v", err)), zero, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}

func teamName(name string, id int) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return fmt.Sprintf("Team %d", id)
}
