package chat

import (
	"context"
	"iter"
	"sync"

	"github.com/google/uuid"

	"github.com/papercomputeco/matchvision/pkg/llm"
)

// Session keeps the latest transcript across turns, for a single
// interactive conversation.
type Session struct {
	ID string

	client *Client

	mu       sync.Mutex
	messages []llm.Message
}

// NewSession starts an empty session on client.
func NewSession(client *Client) *Session {
	return &Session{
		ID:     uuid.NewString(),
		client: client,
	}
}

// Send runs a turn on the session transcript and records every snapshot,
// so a turn that ends early still leaves its last state behind.
func (s *Session) Send(ctx context.Context, text string) iter.Seq[[]llm.Message] {
	return func(yield func([]llm.Message) bool) {
		for snapshot := range s.client.SendTurn(ctx, s.Messages(), text) {
			s.mu.Lock()
			s.messages = snapshot
			s.mu.Unlock()

			if !yield(snapshot) {
				return
			}
		}
	}
}

// Messages returns the current transcript.
func (s *Session) Messages() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Message(nil), s.messages...)
}

// Reset clears the transcript and starts a new session ID.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.ID = uuid.NewString()
}
