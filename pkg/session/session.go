// Package session holds the bounded conversation history for one run of the
// chatbot and performs the request/response round trip against a Completer.
//
// A Session only ever grows by whole exchanges (one user turn followed by one
// assistant turn) and is trimmed from the front after each exchange so that
// at most MaxTurns turns are resent to the model. A failed round trip leaves
// the history untouched.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/germanamz/humanizer/pkg/chats/chat"
	"github.com/germanamz/humanizer/pkg/chats/message"
	"github.com/germanamz/humanizer/pkg/chats/role"
	"github.com/germanamz/humanizer/pkg/modeladapter"
)

// DefaultMaxTurns keeps the last ten exchanges.
const DefaultMaxTurns = 20

// UserSender tags turns typed by the person at the terminal.
const UserSender = "user"

// Session is an ordered, bounded log of turns between one user and one model.
// It is not safe for concurrent use; the REPL owns it exclusively.
type Session struct {
	id       string
	maxTurns int
	history  *chat.Chat
}

// New creates an empty Session that retains at most maxTurns turns.
// A non-positive maxTurns selects DefaultMaxTurns.
func New(maxTurns int) *Session {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	return &Session{
		id:       uuid.Must(uuid.NewV7()).String(),
		maxTurns: maxTurns,
		history:  chat.New(),
	}
}

// ID returns the session identifier. It only correlates log lines.
func (s *Session) ID() string { return s.id }

// MaxTurns returns the retention cap.
func (s *Session) MaxTurns() int { return s.maxTurns }

// Len returns the number of retained turns.
func (s *Session) Len() int { return s.history.Len() }

// Turns returns a copy of the retained turns, oldest first.
func (s *Session) Turns() []message.Message { return s.history.Messages() }

// Append adds one turn at the end of the history. Content is not validated.
func (s *Session) Append(r role.Role, content string) {
	sender := UserSender
	if r != role.User {
		sender = r.String()
	}
	s.history.Append(message.NewText(sender, r, content))
}

// Trim keeps only the newest maxLen turns and reports how many were dropped.
// Trim(0) empties the history.
func (s *Session) Trim(maxLen int) int {
	return s.history.Trim(maxLen)
}

// Payload builds the conversation to send for the next call: the system
// instruction (when non-empty), every retained turn in order, then input as
// the final user turn. It does not modify the session.
func (s *Session) Payload(systemInstruction, input string) *chat.Chat {
	c := chat.New()
	if systemInstruction != "" {
		c.Append(message.NewText("", role.System, systemInstruction))
	}
	c.Append(s.history.Messages()...)
	c.Append(message.NewText(UserSender, role.User, input))
	return c
}

// Exchange sends input, with the retained history and the system
// instruction, to completer. On success the user turn and the reply are
// appended, the history is trimmed to MaxTurns, and the reply text is
// returned. On failure the session is left exactly as it was.
func (s *Session) Exchange(ctx context.Context, completer modeladapter.Completer, systemInstruction, input string) (string, error) {
	if completer == nil {
		return "", errors.New("session: nil completer")
	}

	reply, err := completer.Complete(ctx, s.Payload(systemInstruction, input))
	if err != nil {
		return "", err
	}
	if reply.Role != "" && reply.Role != role.Assistant {
		return "", fmt.Errorf("session: unexpected reply role %q", reply.Role)
	}

	s.Append(role.User, input)
	s.Append(role.Assistant, reply.Content)
	s.Trim(s.maxTurns)

	return reply.Content, nil
}
