package llm

// ChatRequest is an OpenAI-compatible chat completion request.
type ChatRequest struct {
	// Model name (e.g., "google/gemini-3-flash-preview")
	Model string `json:"model"`

	// Conversation messages
	Messages []Message `json:"messages"`

	// Whether to stream the response as SSE
	Stream bool `json:"stream,omitempty"`

	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// ChatTurnRequest is the body of POST /functions/v1/chat: the transcript so
// far, ending with the newest user message.
type ChatTurnRequest struct {
	Messages []Message `json:"messages"`
}
