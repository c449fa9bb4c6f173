package ai

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged turn of a conversation. A leading RoleSystem
// message carries the instructional preamble; providers that take the system
// prompt out of band (Gemini) split it off themselves.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is a chat-completion backend. Implementations must honor ctx
// cancellation; callers bound every invocation with a timeout.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
