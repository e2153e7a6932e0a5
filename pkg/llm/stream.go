package llm

// StreamChunk is the payload of a single SSE data line in a streamed chat
// completion: { choices: [{ delta: { content?: text } }] }.
type StreamChunk struct {
	ID      string        `json:"id,omitempty"`
	Model   string        `json:"model,omitempty"`
	Choices []StreamDelta `json:"choices"`
}

// StreamDelta is one choice of a StreamChunk.
type StreamDelta struct {
	Index int `json:"index"`
	Delta struct {
		Role    Role    `json:"role,omitempty"`
		Content *string `json:"content,omitempty"`
	} `json:"delta"`
	FinishReason *string `json:"finish_reason,omitempty"`
}

// Content returns choices[0].delta.content. ok is false when the field is
// absent, null or the chunk has no choices.
func (c *StreamChunk) Content() (content string, ok bool) {
	if len(c.Choices) == 0 || c.Choices[0].Delta.Content == nil {
		return "", false
	}
	return *c.Choices[0].Delta.Content, true
}
