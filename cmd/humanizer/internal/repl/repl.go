// Package repl runs the read-send-print loop of the chatbot.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/germanamz/humanizer/cmd/humanizer/internal/render"
	"github.com/germanamz/humanizer/pkg/engine"
	"github.com/germanamz/humanizer/pkg/modeladapter/usage"
)

// Farewells printed on the way out.
const (
	Farewell          = "Goodbye! 👋"
	InterruptFarewell = "Goodbye!"
)

var exitTokens = map[string]struct{}{
	"exit":    {},
	"quit":    {},
	"bye":     {},
	"goodbye": {},
	"q":       {},
}

// eventBuffer holds every event a single Ask can publish.
const eventBuffer = 16

// IsExit reports whether line asks to end the conversation. Case and
// surrounding whitespace are ignored.
func IsExit(line string) bool {
	_, ok := exitTokens[strings.ToLower(strings.TrimSpace(line))]
	return ok
}

// Asker performs one round trip with the model.
type Asker interface {
	Ask(ctx context.Context, input string) (string, error)
}

// Loop wires an Asker to a Presenter over a line-oriented input stream.
type Loop struct {
	Asker     Asker
	Presenter render.Presenter
	In        io.Reader
	// Out receives the prompt. Replies go through Presenter.
	Out io.Writer
	// KeyEnv names the credential variable mentioned in auth hints.
	KeyEnv string
	// Events optionally carries engine notifications. The status line takes
	// latency and token counts from EventReply when it is set.
	Events *engine.EventBus
	Logger *slog.Logger
}

type line struct {
	text string
	err  error
}

// Run reads lines until an exit token, end of input or ctx cancellation.
// Remote failures are reported and the loop continues; only a read error is
// returned.
func (l *Loop) Run(ctx context.Context) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var sub *engine.Subscription
	if l.Events != nil {
		sub = l.Events.Subscribe(eventBuffer)
		defer l.Events.Unsubscribe(sub)
	}

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()

	lines := make(chan line)
	go readLines(readCtx, l.In, lines)

	for {
		fmt.Fprint(l.Out, l.Presenter.Prompt())

		var in line
		var ok bool
		select {
		case <-ctx.Done():
			l.Presenter.Goodbye(InterruptFarewell)
			return nil
		case in, ok = <-lines:
		}

		if !ok {
			if ctx.Err() != nil {
				l.Presenter.Goodbye(InterruptFarewell)
				return nil
			}
			fmt.Fprintln(l.Out)
			return nil
		}
		if in.err != nil {
			return fmt.Errorf("repl: read input: %w", in.err)
		}

		text := strings.TrimSpace(in.text)
		if IsExit(text) {
			l.Presenter.Goodbye(Farewell)
			return nil
		}
		if text == "" {
			continue
		}

		l.exchange(ctx, logger, sub, text)

		if ctx.Err() != nil {
			l.Presenter.Goodbye(InterruptFarewell)
			return nil
		}
	}
}

func (l *Loop) exchange(ctx context.Context, logger *slog.Logger, sub *engine.Subscription, text string) {
	logger.Debug("sending", "input", render.Preview(text, 60), "chars", len(text))

	start := time.Now()
	reply, err := l.Presenter.Wait(ctx, func(ctx context.Context) (string, error) {
		return l.Asker.Ask(ctx, text)
	})
	latency := time.Since(start)

	var tokens usage.TokenCount
	for _, ev := range drain(sub) {
		switch ev.Kind {
		case engine.EventReply:
			if r, ok := ev.Data.(engine.Reply); ok {
				latency = r.Latency
				tokens = r.Usage
			}
		case engine.EventTrimmed:
			logger.Debug("history trimmed", "session", ev.SessionID, "dropped", ev.Data)
		}
	}

	if err != nil {
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			return
		}
		logger.Debug("request failed", "latency", latency, "error", err)
		l.Presenter.Error(err, render.Hint(err, l.KeyEnv))
		return
	}

	l.Presenter.Reply(reply)
	l.Presenter.Status(latency, tokens)
}

// drain returns the events already buffered on sub without blocking.
func drain(sub *engine.Subscription) []engine.Event {
	if sub == nil {
		return nil
	}

	var events []engine.Event
	for {
		select {
		case ev, ok := <-sub.C:
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

// readLines sends every line of r on out and closes it at end of input or
// once ctx is done. A final line without a newline is still delivered.
func readLines(ctx context.Context, r io.Reader, out chan<- line) {
	defer close(out)

	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	for {
		s, err := br.ReadString('\n')
		if s != "" && !send(ctx, out, line{text: s}) {
			return
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			send(ctx, out, line{err: err})
			return
		}
	}
}

func send(ctx context.Context, out chan<- line, l line) bool {
	select {
	case out <- l:
		return true
	case <-ctx.Done():
		return false
	}
}
