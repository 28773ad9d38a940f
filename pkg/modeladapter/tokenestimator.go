package modeladapter

import (
	"github.com/germanamz/humanizer/pkg/chats/chat"
	"github.com/germanamz/humanizer/pkg/chats/message"
)

// perMessageOverhead is the estimated token overhead for each message (role,
// structure delimiters, etc.).
const perMessageOverhead = 4

// EstimateTokens approximates the input tokens a conversation will cost,
// using roughly one token per four bytes of text plus a fixed per-message
// overhead. It is only a hint for logs; vendors report the real figure.
func EstimateTokens(c *chat.Chat) int {
	tokens := 0

	c.Each(func(_ int, m message.Message) bool {
		tokens += perMessageOverhead + (len(m.Content)+3)/4
		return true
	})

	return tokens
}
