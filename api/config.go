// Package api provides the HTTP server behind the web app and the CLI relay
// mode: football data, match predictions and streamed chat.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8090")
	ListenAddr string

	// AllowOrigins is the CORS origin list. Defaults to "*".
	AllowOrigins string
}
