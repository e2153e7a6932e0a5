package config

const (
	defaultServerListen = ":8090"

	defaultGatewayURL   = "https://ai.gateway.lovable.dev/v1"
	defaultGatewayModel = "google/gemini-3-flash-preview"

	defaultFootballURL = "https://v3.football.api-sports.io"

	// 39 is the Premier League in API-Football.
	defaultFootballLeague = 39

	defaultClientServerTarget = "http://localhost:8090"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen: defaultServerListen,
		},
		Gateway: GatewayConfig{
			URL:   defaultGatewayURL,
			Model: defaultGatewayModel,
		},
		Football: FootballConfig{
			URL:    defaultFootballURL,
			League: defaultFootballLeague,
		},
		Client: ClientConfig{
			ServerTarget: defaultClientServerTarget,
		},
	}
}
