// Package gateway is a client for an OpenAI-compatible chat completions
// gateway, used both for one-shot predictions and for streamed chat.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/papercomputeco/matchvision/pkg/llm"
	"github.com/papercomputeco/matchvision/pkg/logger"
)

const (
	// DefaultBaseURL is the gateway the hosted app talks to.
	DefaultBaseURL = "https://ai.gateway.lovable.dev/v1"

	// DefaultModel is the model requested when none is configured.
	DefaultModel = "google/gemini-3-flash-preview"

	// DefaultTimeout bounds a non-streaming completion.
	DefaultTimeout = 120 * time.Second

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 4096
)

// Config holds configuration for the gateway client.
type Config struct {
	// BaseURL is the API root; requests go to BaseURL + "/chat/completions".
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// APIKey is sent as a bearer token.
	APIKey string

	// Model defaults to DefaultModel if empty.
	Model string

	// SystemPrompt is prepended to every request whose messages do not
	// already start with a system message.
	SystemPrompt string

	// Timeout bounds Complete. Streams are bounded only by their context.
	// Defaults to DefaultTimeout if zero.
	Timeout time.Duration
}

// Client talks to the LLM gateway.
type Client struct {
	baseURL      string
	apiKey       string
	model        string
	systemPrompt string
	timeout      time.Duration

	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// NewClient creates a gateway client.
func NewClient(cfg Config, opts ...Option) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:      baseURL,
		apiKey:       cfg.APIKey,
		model:        model,
		systemPrompt: cfg.SystemPrompt,
		timeout:      timeout,
		httpClient:   &http.Client{},
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the model requested by the client.
func (c *Client) Model() string {
	return c.model
}

// WithSystemPrompt returns a copy of the client that uses prompt instead of
// the configured system prompt.
func (c *Client) WithSystemPrompt(prompt string) *Client {
	cp := *c
	cp.systemPrompt = prompt
	return &cp
}

// Complete requests a single non-streamed completion.
func (c *Client) Complete(ctx context.Context, messages []llm.Message) (*llm.ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.do(ctx, messages, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out llm.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding completion: %w", err)
	}

	if out.Usage != nil {
		c.logger.Debug("completion received",
			"model", out.Model,
			"prompt_tokens", out.Usage.PromptTokens,
			"completion_tokens", out.Usage.CompletionTokens,
		)
	}

	return &out, nil
}

// OpenStream starts a streamed completion and returns the raw SSE body.
// The caller owns the body and must close it.
func (c *Client) OpenStream(ctx context.Context, messages []llm.Message) (io.ReadCloser, error) {
	resp, err := c.do(ctx, messages, true)
	if err != nil {
		return nil, err
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, errors.New("gateway returned no stream body")
	}
	return resp.Body, nil
}

func (c *Client) do(ctx context.Context, messages []llm.Message, stream bool) (*http.Response, error) {
	body, err := json.Marshal(llm.ChatRequest{
		Model:    c.model,
		Messages: c.withSystemPrompt(messages),
		Stream:   stream,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	c.logger.Debug("sending gateway request",
		"model", c.model,
		"messages", len(messages),
		"stream", stream,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		c.logger.Error("gateway error", "status", resp.StatusCode, "body", statusErr.Body)
		return nil, statusErr
	}

	return resp, nil
}

func (c *Client) withSystemPrompt(messages []llm.Message) []llm.Message {
	if c.systemPrompt == "" || (len(messages) > 0 && messages[0].Role == llm.RoleSystem) {
		return messages
	}

	out := make([]llm.Message, 0, len(messages)+1)
	out = append(out, llm.NewTextMessage(llm.RoleSystem, c.systemPrompt))
	return append(out, messages...)
}
