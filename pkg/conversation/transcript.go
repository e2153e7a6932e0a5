// Package conversation maintains the ordered chat transcript that streamed
// assistant fragments are merged into.
package conversation

import "github.com/papercomputeco/matchvision/pkg/llm"

// FallbackText is appended as its own assistant entry when a turn fails.
const FallbackText = "Sorry, something went wrong. Please try again."

// Transcript is an ordered list of messages. At most one assistant entry is
// in progress at a time and it is always the last one.
//
// A Transcript is owned by a single send and is not safe for concurrent use.
type Transcript struct {
	messages []llm.Message
}

// New returns a Transcript holding a copy of initial.
func New(initial ...llm.Message) *Transcript {
	msgs := make([]llm.Message, len(initial))
	copy(msgs, initial)
	return &Transcript{messages: msgs}
}

// AppendUser appends a user message.
func (t *Transcript) AppendUser(text string) {
	t.messages = append(t.messages, llm.NewTextMessage(llm.RoleUser, text))
}

// MergeAssistantFragment extends the trailing assistant message with text,
// or starts a new assistant message if the tail belongs to someone else.
func (t *Transcript) MergeAssistantFragment(text string) {
	if n := len(t.messages); n > 0 && t.messages[n-1].IsAssistant() {
		t.messages[n-1].Content += text
		return
	}
	t.messages = append(t.messages, llm.NewTextMessage(llm.RoleAssistant, text))
}

// AppendFallback appends the fixed apology as a new assistant entry. It is
// never merged into a partial reply.
func (t *Transcript) AppendFallback() {
	t.messages = append(t.messages, llm.NewTextMessage(llm.RoleAssistant, FallbackText))
}

// Messages returns a snapshot of the transcript.
func (t *Transcript) Messages() []llm.Message {
	out := make([]llm.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Last returns the trailing message, if any.
func (t *Transcript) Last() (llm.Message, bool) {
	if len(t.messages) == 0 {
		return llm.Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}
