// Package llm holds the wire types shared by the chat client, the gateway
// client and the relay server. They mirror the OpenAI chat-completions format
// spoken by the LLM gateway.
package llm

// Role tags a message in a transcript.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewTextMessage creates a message with the given role and content.
func NewTextMessage(role Role, text string) Message {
	return Message{Role: role, Content: text}
}

// IsAssistant reports whether m was produced by the model.
func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

// Valid reports whether the role is one the gateway accepts.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}
