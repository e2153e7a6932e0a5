// Package football is a client for the API-Football v3 data API.
package football

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/papercomputeco/matchvision/pkg/logger"
)

const (
	// DefaultBaseURL is the API-Football v3 endpoint.
	DefaultBaseURL = "https://v3.football.api-sports.io"

	// DefaultLeague is the Premier League.
	DefaultLeague = 39

	// DefaultTimeout bounds a single API call.
	DefaultTimeout = 30 * time.Second

	EndpointTeams      = "teams"
	EndpointSquads     = "players/squads"
	EndpointStatistics = "teams/statistics"
)

// ErrUnknownEndpoint is returned by Call for endpoints outside the allowlist.
var ErrUnknownEndpoint = errors.New("unknown endpoint")

var allowedEndpoints = map[string]bool{
	EndpointTeams:      true,
	EndpointSquads:     true,
	EndpointStatistics: true,
}

// Config holds configuration for the football client.
type Config struct {
	// BaseURL defaults to DefaultBaseURL if empty.
	BaseURL string

	// APIKey is sent as the x-apisports-key header.
	APIKey string

	// League is used for team statistics. Defaults to DefaultLeague.
	League int

	// Timeout defaults to DefaultTimeout if zero.
	Timeout time.Duration
}

// Client calls API-Football.
type Client struct {
	baseURL    string
	apiKey     string
	league     int
	httpClient *http.Client
	logger     *slog.Logger

	now func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides the clock used to pick the statistics season.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient creates a football API client.
func NewClient(cfg Config, opts ...Option) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	league := cfg.League
	if league <= 0 {
		league = DefaultLeague
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		league:     league,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsAllowedEndpoint reports whether Call accepts endpoint.
func IsAllowedEndpoint(endpoint string) bool {
	return allowedEndpoints[endpoint]
}

// Call performs GET {BaseURL}/{endpoint}?{params} and returns the raw JSON
// body. Param values are formatted with fmt's %v verb.
func (c *Client) Call(ctx context.Context, endpoint string, params map[string]any) (json.RawMessage, error) {
	if !IsAllowedEndpoint(endpoint) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEndpoint, endpoint)
	}

	query := url.Values{}
	for k, v := range params {
		query.Set(k, formatParam(v))
	}

	target := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-apisports-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("calling football api", "endpoint", endpoint, "params", query.Encode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("football api request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("football api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.RawMessage(body), nil
}

// SearchTeams finds teams whose name matches query.
func (c *Client) SearchTeams(ctx context.Context, query string) ([]Team, error) {
	raw, err := c.Call(ctx, EndpointTeams, map[string]any{"search": query})
	if err != nil {
		return nil, err
	}

	var env envelope[[]teamEntry]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding teams: %w", err)
	}

	teams := make([]Team, 0, len(env.Response))
	for _, entry := range env.Response {
		country := entry.Team.Country
		if entry.Venue != nil && entry.Venue.City != "" {
			country = entry.Venue.City
		}
		teams = append(teams, Team{
			ID:      entry.Team.ID,
			Name:    entry.Team.Name,
			Logo:    entry.Team.Logo,
			Country: country,
		})
	}
	return teams, nil
}

// Squad returns the current squad of a team. Missing shirt numbers and ages
// are reported as 0.
func (c *Client) Squad(ctx context.Context, teamID int) ([]Player, error) {
	raw, err := c.Call(ctx, EndpointSquads, map[string]any{"team": teamID})
	if err != nil {
		return nil, err
	}

	var env envelope[[]squadEntry]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding squad: %w", err)
	}

	if len(env.Response) == 0 {
		return []Player{}, nil
	}

	players := make([]Player, 0, len(env.Response[0].Players))
	for _, p := range env.Response[0].Players {
		player := Player{
			ID:       p.ID,
			Name:     p.Name,
			Position: p.Position,
			Photo:    p.Photo,
		}
		if p.Number != nil {
			player.Number = *p.Number
		}
		if p.Age != nil {
			player.Age = *p.Age
		}
		players = append(players, player)
	}
	return players, nil
}

// TeamStatistics returns the current-season league statistics of a team.
// Statistics are optional, so any failure yields nil.
func (c *Client) TeamStatistics(ctx context.Context, teamID int) json.RawMessage {
	raw, err := c.Call(ctx, EndpointStatistics, map[string]any{
		"team":   teamID,
		"season": CurrentSeason(c.now()),
		"league": c.league,
	})
	if err != nil {
		c.logger.Warn("team statistics unavailable", "team_id", teamID, "error", err)
		return nil
	}

	var env envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Warn("decoding team statistics", "team_id", teamID, "error", err)
		return nil
	}

	if len(env.Response) == 0 || string(env.Response) == "null" {
		return nil
	}
	return env.Response
}

// CurrentSeason returns the season year in progress at t. Seasons start in
// August, so earlier months belong to the previous year's season.
func CurrentSeason(t time.Time) int {
	if t.Month() >= time.August {
		return t.Year()
	}
	return t.Year() - 1
}

func formatParam(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		// JSON numbers decode as float64.
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
