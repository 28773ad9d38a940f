package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/germanamz/humanizer/pkg/modeladapter"
	"github.com/germanamz/humanizer/pkg/modeladapter/usage"
	"github.com/germanamz/humanizer/pkg/preset"
	"github.com/germanamz/humanizer/pkg/session"
)

// ErrBusy is returned by Ask when another Ask on the same Engine is still
// waiting for the model.
var ErrBusy = errors.New("engine: a request is already in progress")

// Engine pairs one Completer with one bounded Session and exposes the
// request/response round trip to frontends.
type Engine struct {
	preset    preset.Preset
	completer modeladapter.Completer
	session   *session.Session
	events    *EventBus
	logger    *slog.Logger

	mu sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithCompleter replaces the vendor adapter that would be built from the
// preset. Mostly useful in tests.
func WithCompleter(c modeladapter.Completer) Option {
	return func(e *Engine) { e.completer = c }
}

// WithMaxTurns caps the retained history. Non-positive values keep
// session.DefaultMaxTurns.
func WithMaxTurns(n int) Option {
	return func(e *Engine) { e.session = session.New(n) }
}

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine for the resolved preset p. apiKey is handed to the
// vendor adapter and is never logged.
func New(p preset.Preset, apiKey string, opts ...Option) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	e := &Engine{
		preset:  p,
		session: session.New(session.DefaultMaxTurns),
		events:  NewEventBus(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.completer == nil {
		if strings.TrimSpace(apiKey) == "" {
			return nil, fmt.Errorf("engine: preset %q: api key is required", p.Name)
		}

		c, err := buildCompleter(p, apiKey)
		if err != nil {
			return nil, err
		}
		e.completer = c
	}

	e.logger.Debug("engine ready",
		"session", e.session.ID(),
		"preset", p.Name,
		"vendor", p.Vendor,
		"model", p.Model,
		"max_turns", e.session.MaxTurns(),
	)

	return e, nil
}

// Preset returns the preset the engine runs with.
func (e *Engine) Preset() preset.Preset { return e.preset }

// Session returns the engine's conversation session.
func (e *Engine) Session() *session.Session { return e.session }

// Events returns the engine's event bus.
func (e *Engine) Events() *EventBus { return e.events }

// Usage returns the token usage tracker of the underlying adapter, or nil
// when the completer does not report usage.
func (e *Engine) Usage() *usage.Tracker {
	if r, ok := e.completer.(modeladapter.UsageReporter); ok {
		return r.UsageTracker()
	}
	return nil
}

// Ask sends input to the model with the retained history and the preset's
// instruction and returns the reply text. On failure the history is left
// unchanged and the error is returned as is, so callers can classify it with
// modeladapter.IsAuth and modeladapter.IsQuota.
func (e *Engine) Ask(ctx context.Context, input string) (string, error) {
	if !e.mu.TryLock() {
		return "", ErrBusy
	}
	defer e.mu.Unlock()

	sid := e.session.ID()
	e.publish(EventAsk, input)

	tracker := e.Usage()
	callsBefore := 0
	if tracker != nil {
		callsBefore = tracker.Count()
	}
	lenBefore := e.session.Len()
	if e.logger.Enabled(ctx, slog.LevelDebug) {
		payload := e.session.Payload(e.preset.Instruction, input)
		e.logger.Debug("sending",
			"session", sid,
			"turns", payload.Len(),
			"est_input_tokens", modeladapter.EstimateTokens(payload),
		)
	}
	start := time.Now()

	text, err := e.session.Exchange(ctx, e.completer, e.preset.Instruction, input)
	latency := time.Since(start)
	if err != nil {
		e.logger.Debug("exchange failed", "session", sid, "model", e.preset.Model, "latency", latency, "error", err)
		e.publish(EventError, err)
		return "", err
	}

	reply := Reply{Text: text, Latency: latency, Turns: e.session.Len()}
	if tracker != nil && tracker.Count() > callsBefore {
		reply.Usage, _ = tracker.Last()
	}

	e.logger.Debug("exchange done",
		"session", sid,
		"model", e.preset.Model,
		"latency", latency,
		"input_tokens", reply.Usage.InputTokens,
		"output_tokens", reply.Usage.OutputTokens,
		"turns", reply.Turns,
	)
	if rl := e.rateLimit(); rl != nil {
		e.logger.Debug("rate limit",
			"remaining_requests", rl.RemainingRequests,
			"remaining_tokens", rl.RemainingTokens,
			"tokens_reset", rl.TokensReset,
		)
	}
	e.publish(EventReply, reply)

	if dropped := lenBefore + 2 - reply.Turns; dropped > 0 {
		e.publish(EventTrimmed, dropped)
	}

	return text, nil
}

// rateLimit returns the last rate limit state the vendor reported, if any.
func (e *Engine) rateLimit() *modeladapter.RateLimitInfo {
	if r, ok := e.completer.(modeladapter.RateLimitInfoReporter); ok {
		return r.LastRateLimitInfo()
	}
	return nil
}

func (e *Engine) publish(kind EventKind, data any) {
	e.events.Publish(Event{
		Kind:      kind,
		SessionID: e.session.ID(),
		Model:     e.preset.Model,
		Timestamp: time.Now(),
		Data:      data,
	})
}
