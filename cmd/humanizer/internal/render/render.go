// Package render prints the chatbot's output. A Presenter is chosen once at
// start-up: Rich when stdout is a terminal, Plain otherwise.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/germanamz/humanizer/pkg/modeladapter"
	"github.com/germanamz/humanizer/pkg/modeladapter/usage"
	"github.com/germanamz/humanizer/pkg/preset"
)

// WaitLabel is shown while a request is in flight.
const WaitLabel = "Humanizing..."

// Presenter is everything the REPL needs to talk to the person at the
// terminal.
type Presenter interface {
	Welcome(p preset.Preset)
	Ready(model string)
	Prompt() string
	// Wait runs fn while showing progress and returns its result.
	Wait(ctx context.Context, fn func(context.Context) (string, error)) (string, error)
	Reply(text string)
	Status(latency time.Duration, tokens usage.TokenCount)
	Error(err error, hint string)
	Warn(msg string)
	Goodbye(msg string)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd is a small non-negative int
}

// TerminalWidth returns the width of f, or fallback when it is not a
// terminal.
func TerminalWidth(f *os.File, fallback int) int {
	w, _, err := term.GetSize(int(f.Fd())) //nolint:gosec // fd is a small non-negative int
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// Hint returns a one-line suggestion for well-known remote failures, or ""
// when err is not one of them. keyEnv names the variable holding the key.
func Hint(err error, keyEnv string) string {
	switch {
	case modeladapter.IsAuth(err):
		return fmt.Sprintf("The API rejected the key. Check %s or api_key in the config.", keyEnv)
	case modeladapter.IsQuota(err):
		var rl *modeladapter.RateLimitError
		if errors.As(err, &rl) && rl.RetryAfter > 0 {
			return fmt.Sprintf("Rate limit or quota exceeded. Try again in %s.", fmtDuration(rl.RetryAfter))
		}
		return "Rate limit or quota exceeded. Wait a moment before sending again."
	case errors.Is(err, modeladapter.ErrEmptyResponse):
		return "The model returned no text. Rephrasing the message usually helps."
	}
	return ""
}

// Preview shortens s to at most width terminal cells on a single line.
func Preview(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, width, "…")
}

// fmtTokens formats a token count for display, using k/M suffixes.
func fmtTokens(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// fmtDuration formats a duration for display.
func fmtDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d.Minutes())
	sec := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", m, sec)
}

// statusLine renders "1.2s · 120 in / 85 out". Tokens are omitted when the
// vendor did not report them.
func statusLine(latency time.Duration, tokens usage.TokenCount) string {
	line := fmtDuration(latency)
	if tokens.Total() > 0 {
		line += fmt.Sprintf(" · %s in / %s out", fmtTokens(tokens.InputTokens), fmtTokens(tokens.OutputTokens))
	}
	return line
}
