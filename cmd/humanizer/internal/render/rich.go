package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/germanamz/humanizer/cmd/humanizer/internal/styles"
	"github.com/germanamz/humanizer/pkg/modeladapter/usage"
	"github.com/germanamz/humanizer/pkg/preset"
)

var _ Presenter = (*Rich)(nil)

// Rich renders replies as markdown and shows a spinner while waiting.
type Rich struct {
	out io.Writer
	md  *glamour.TermRenderer
}

// NewRich creates a Rich presenter wrapping markdown at width columns.
// When the markdown renderer cannot be built replies are printed as is.
func NewRich(out io.Writer, width int) *Rich {
	if width <= 0 {
		width = 100
	}
	r := &Rich{out: out}
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		r.md = md
	}
	return r
}

func (r *Rich) Welcome(p preset.Preset) {
	fmt.Fprintln(r.out, styles.Welcome(p))
}

func (r *Rich) Ready(model string) {
	fmt.Fprintln(r.out, styles.DimStyle.Render(fmt.Sprintf("Connected to %s. Ready!", model)))
	fmt.Fprintln(r.out)
}

func (r *Rich) Prompt() string { return styles.PromptStyle.Render("You:") + " " }

func (r *Rich) Wait(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	return runSpinner(ctx, r.out, WaitLabel, fn)
}

func (r *Rich) Reply(text string) {
	fmt.Fprintln(r.out, r.renderMarkdown(text))
	fmt.Fprintln(r.out)
}

func (r *Rich) Status(latency time.Duration, tokens usage.TokenCount) {
	fmt.Fprintln(r.out, styles.StatusStyle.Render(statusLine(latency, tokens)))
}

func (r *Rich) Error(err error, hint string) {
	fmt.Fprintln(r.out, styles.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
	if hint != "" {
		fmt.Fprintln(r.out, styles.HintStyle.Render(hint))
	}
}

func (r *Rich) Warn(msg string) {
	fmt.Fprintln(r.out, styles.HintStyle.Render("⚠️  "+msg))
}

func (r *Rich) Goodbye(msg string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, styles.DimStyle.Italic(true).Render(msg))
}

// renderMarkdown converts markdown text to terminal-formatted output.
func (r *Rich) renderMarkdown(text string) string {
	if r.md == nil {
		return text
	}
	out, err := r.md.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

