package domain

import "time"

// Role identifies the author of a chat message.
type Role string

// Chat message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat transcript entry. Streaming marks a message whose
// content is still arriving; such messages are never persisted.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Streaming bool      `json:"streaming,omitempty"`
}

// Session is a chat transcript scoped by a client-generated identifier.
// The identifier is unrelated to user identity; it is minted once per
// client instance and regenerated on reset.
type Session struct {
	ID       string    `json:"sessionId"`
	Messages []Message `json:"messages"`
}
