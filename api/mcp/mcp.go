// Package mcp provides an MCP (Model Context Protocol) server exposing team
// search and match prediction as tools.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/matchvision/pkg/football"
	"github.com/papercomputeco/matchvision/pkg/prediction"
	"github.com/papercomputeco/matchvision/pkg/utils"
)

// TeamSearcher finds teams by name. *football.Client satisfies it.
type TeamSearcher interface {
	SearchTeams(ctx context.Context, query string) ([]football.Team, error)
}

// MatchPredictor predicts a fixture. *prediction.Service satisfies it.
type MatchPredictor interface {
	PredictMatch(ctx context.Context, home, away football.Team) (*prediction.Prediction, error)
}

type Config struct {
	// Teams backs the search_teams tool
	Teams TeamSearcher

	// Matches backs the predict_match tool
	Matches MatchPredictor

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the football tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "matchvision",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if !c.Noop {
		if c.Teams == nil {
			return nil, errors.New("team searcher is required")
		}
		if c.Matches == nil {
			return nil, errors.New("match predictor is required")
		}
		if c.Logger == nil {
			return nil, errors.New("logger is required")
		}

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        searchTeamsToolName,
			Description: searchTeamsDescription,
		}, s.handleSearchTeams)

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        predictMatchToolName,
			Description: predictMatchDescription,
		}, s.handlePredictMatch)
	}

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}
