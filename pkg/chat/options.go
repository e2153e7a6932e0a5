package chat

import "log/slog"

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger. Decode tracing is logged at Debug.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithChunkSize sets the transport read size.
func WithChunkSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithFailureHook registers fn to be called with the error of a failed open
// or read, just before the snapshot carrying the fallback entry is yielded.
func WithFailureHook(fn func(error)) Option {
	return func(c *Client) {
		c.onFailure = fn
	}
}
