// Package openai provides a Completer implementation for the OpenAI Chat Completions API.
package openai

import (
	"context"
	"fmt"

	"github.com/germanamz/humanizer/pkg/chats/chat"
	"github.com/germanamz/humanizer/pkg/chats/message"
	"github.com/germanamz/humanizer/pkg/chats/role"
	"github.com/germanamz/humanizer/pkg/modeladapter"
	"github.com/germanamz/humanizer/pkg/modeladapter/usage"
)

// DefaultBaseURL is the public OpenAI API endpoint.
const DefaultBaseURL = "https://api.openai.com"

const completionsPath = "/v1/chat/completions"

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the OpenAI Chat Completions API.
// Sampling.TopK has no Chat Completions equivalent and is never sent.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter configured for the OpenAI API.
// The baseURL should be DefaultBaseURL (no trailing slash).
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = modeladapter.Auth{Key: apiKey}
	a.Name = model
	a.Sampling.MaxTokens = 4096
	a.HeaderParser = modeladapter.ParseOpenAIRateLimitHeaders

	return a
}

// Complete sends a conversation to the OpenAI Chat Completions API and returns
// the assistant's reply.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat) (message.Message, error) {
	req := a.buildRequest(c)

	var resp apiResponse
	if err := a.PostJSON(ctx, completionsPath, req, &resp); err != nil {
		return message.Message{}, fmt.Errorf("openai: %w", err)
	}

	a.Usage.Add(usage.TokenCount{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	})

	if len(resp.Choices) == 0 {
		return message.Message{}, fmt.Errorf("openai: empty choices in response: %w", modeladapter.ErrEmptyResponse)
	}

	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return message.Message{}, fmt.Errorf("openai: model refused: %s", choice.Message.Refusal)
	}
	if choice.Message.Content == nil || *choice.Message.Content == "" {
		return message.Message{}, fmt.Errorf("openai: finish reason %q: %w", choice.FinishReason, modeladapter.ErrEmptyResponse)
	}

	return message.NewText(a.Name, role.Assistant, *choice.Message.Content), nil
}

// --- request types ---

type apiRequest struct {
	Model               string       `json:"model"`
	Messages            []apiMessage `json:"messages"`
	MaxCompletionTokens int          `json:"max_completion_tokens,omitempty"`
	Temperature         *float64     `json:"temperature,omitempty"`
	TopP                *float64     `json:"top_p,omitempty"`
	PresencePenalty     *float64     `json:"presence_penalty,omitempty"`
	FrequencyPenalty    *float64     `json:"frequency_penalty,omitempty"`
	ReasoningEffort     string       `json:"reasoning_effort,omitempty"`
	Verbosity           string       `json:"verbosity,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- response types ---

type apiResponse struct {
	Choices []apiChoice `json:"choices"`
	Usage   apiUsage    `json:"usage"`
}

type apiChoice struct {
	Message      apiRespMessage `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

type apiRespMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
	Refusal string  `json:"refusal,omitempty"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// --- conversion helpers ---

func (a *Adapter) buildRequest(c *chat.Chat) apiRequest {
	s := a.Sampling
	req := apiRequest{
		Model:               a.Name,
		MaxCompletionTokens: s.MaxTokens,
		Temperature:         modeladapter.Float(s.Temperature),
		TopP:                modeladapter.Float(s.TopP),
		PresencePenalty:     modeladapter.Float(s.PresencePenalty),
		FrequencyPenalty:    modeladapter.Float(s.FrequencyPenalty),
		ReasoningEffort:     s.ReasoningEffort,
		Verbosity:           s.Verbosity,
	}

	req.Messages = make([]apiMessage, 0, c.Len())
	c.Each(func(_ int, m message.Message) bool {
		req.Messages = append(req.Messages, apiMessage{
			Role:    m.Role.String(),
			Content: m.Content,
		})
		return true
	})

	return req
}
