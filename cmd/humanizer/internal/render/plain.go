package render

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/germanamz/humanizer/cmd/humanizer/internal/styles"
	"github.com/germanamz/humanizer/pkg/modeladapter/usage"
	"github.com/germanamz/humanizer/pkg/preset"
)

var _ Presenter = (*Plain)(nil)

// Plain writes unstyled text. It is used when stdout is not a terminal or
// when --plain is given.
type Plain struct {
	Out io.Writer
}

func (p *Plain) Welcome(pr preset.Preset) {
	fmt.Fprintln(p.Out, styles.WelcomeText(pr))
}

func (p *Plain) Ready(model string) {
	fmt.Fprintf(p.Out, "Connected to %s. Ready!\n\n", model)
}

func (p *Plain) Prompt() string { return "You: " }

func (p *Plain) Wait(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	fmt.Fprint(p.Out, WaitLabel+" ")
	text, err := fn(ctx)
	if err == nil {
		fmt.Fprintln(p.Out, "✓")
	} else {
		fmt.Fprintln(p.Out)
	}
	return text, err
}

func (p *Plain) Reply(text string) {
	fmt.Fprintf(p.Out, "\n%s\n\n", text)
}

func (p *Plain) Status(time.Duration, usage.TokenCount) {}

func (p *Plain) Error(err error, hint string) {
	fmt.Fprintf(p.Out, "Error: %v\n", err)
	if hint != "" {
		fmt.Fprintln(p.Out, hint)
	}
}

func (p *Plain) Warn(msg string) {
	fmt.Fprintf(p.Out, "⚠️  %s\n", msg)
}

func (p *Plain) Goodbye(msg string) {
	fmt.Fprintf(p.Out, "\n%s\n", msg)
}
