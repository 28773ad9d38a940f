// Package message defines the Message type used in LLM conversations.
package message

import "github.com/germanamz/humanizer/pkg/chats/role"

// Message is a single turn in a conversation. It is a value type with no
// reference fields, so copies never share state with the original.
type Message struct {
	Sender  string
	Role    role.Role
	Content string
}

// NewText creates a text message with the given sender and role.
func NewText(sender string, r role.Role, text string) Message {
	return Message{
		Sender:  sender,
		Role:    r,
		Content: text,
	}
}

// TextContent returns the message text.
func (m Message) TextContent() string {
	return m.Content
}
