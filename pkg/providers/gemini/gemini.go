// Package gemini provides a Completer implementation for the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/germanamz/humanizer/pkg/chats/chat"
	"github.com/germanamz/humanizer/pkg/chats/message"
	"github.com/germanamz/humanizer/pkg/chats/role"
	"github.com/germanamz/humanizer/pkg/modeladapter"
	"github.com/germanamz/humanizer/pkg/modeladapter/usage"
)

// DefaultBaseURL is the public Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// DefaultAcknowledgement is the model turn that follows the instruction when
// it is sent as a leading conversation pair.
const DefaultAcknowledgement = "Understood. I'll write like a human."

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the Google Gemini API.
type Adapter struct {
	modeladapter.ModelAdapter

	// InstructionAsTurns sends the system prompt as a leading user turn
	// ("System: ...") followed by a model acknowledgement, instead of the
	// systemInstruction field.
	InstructionAsTurns bool
	// Acknowledgement is the model reply used with InstructionAsTurns.
	// Empty means DefaultAcknowledgement.
	Acknowledgement string
}

// New creates an Adapter configured for the Gemini API.
// The baseURL should be DefaultBaseURL (no trailing slash).
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = modeladapter.Auth{
		Key:    apiKey,
		Header: "x-goog-api-key",
	}
	a.Name = model
	a.Sampling.MaxTokens = 8192

	// The Gemini API does not return rate limit headers, so HeaderParser stays nil.

	return a
}

// Complete sends a conversation to the Gemini API and returns the assistant's reply.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat) (message.Message, error) {
	req := a.buildRequest(c)
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", a.Name)

	var resp apiResponse
	if err := a.PostJSON(ctx, path, req, &resp); err != nil {
		return message.Message{}, fmt.Errorf("gemini: %w", err)
	}

	a.Usage.Add(usage.TokenCount{
		InputTokens:  resp.UsageMetadata.PromptTokenCount,
		OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
	})

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return message.Message{}, fmt.Errorf("gemini: prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 {
		return message.Message{}, fmt.Errorf("gemini: empty candidates in response: %w", modeladapter.ErrEmptyResponse)
	}

	text := candidateText(resp.Candidates[0])
	if text == "" {
		return message.Message{}, fmt.Errorf("gemini: finish reason %q: %w", resp.Candidates[0].FinishReason, modeladapter.ErrEmptyResponse)
	}

	return message.NewText(a.Name, role.Assistant, text), nil
}

// --- request types ---

type apiRequest struct {
	Contents          []apiContent     `json:"contents"`
	SystemInstruction *apiContent      `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type apiContent struct {
	Role  string    `json:"role,omitempty"`
	Parts []apiPart `json:"parts"`
}

type apiPart struct {
	Text    string `json:"text,omitempty"`
	Thought bool   `json:"thought,omitempty"`
}

type generationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"topP,omitempty"`
	TopK             *int     `json:"topK,omitempty"`
	PresencePenalty  *float64 `json:"presencePenalty,omitempty"`
	FrequencyPenalty *float64 `json:"frequencyPenalty,omitempty"`
	MaxOutputTokens  int      `json:"maxOutputTokens,omitempty"`
}

// --- response types ---

type apiResponse struct {
	Candidates     []apiCandidate     `json:"candidates"`
	PromptFeedback *apiPromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  apiUsageMeta       `json:"usageMetadata"`
}

type apiCandidate struct {
	Content      apiContent `json:"content"`
	FinishReason string     `json:"finishReason"`
}

type apiPromptFeedback struct {
	BlockReason string `json:"blockReason"`
}

type apiUsageMeta struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// --- conversion helpers ---

func (a *Adapter) buildRequest(c *chat.Chat) apiRequest {
	s := a.Sampling
	req := apiRequest{
		GenerationConfig: generationConfig{
			Temperature:      modeladapter.Float(s.Temperature),
			TopP:             modeladapter.Float(s.TopP),
			TopK:             modeladapter.Int(s.TopK),
			PresencePenalty:  modeladapter.Float(s.PresencePenalty),
			FrequencyPenalty: modeladapter.Float(s.FrequencyPenalty),
			MaxOutputTokens:  s.MaxTokens,
		},
	}

	if sp := c.SystemPrompt(); sp != "" {
		if a.InstructionAsTurns {
			ack := a.Acknowledgement
			if ack == "" {
				ack = DefaultAcknowledgement
			}
			appendContent(&req.Contents, "user", "System: "+sp)
			appendContent(&req.Contents, "model", ack)
		} else {
			req.SystemInstruction = &apiContent{Parts: []apiPart{{Text: sp}}}
		}
	}

	c.Each(func(_ int, m message.Message) bool {
		if m.Role != role.System {
			appendContent(&req.Contents, mapRole(m.Role), m.Content)
		}
		return true
	})

	return req
}

// appendContent adds a text part, merging into the previous content when the
// role repeats (Gemini requires alternation).
func appendContent(contents *[]apiContent, apiRole, text string) {
	part := apiPart{Text: text}

	if n := len(*contents); n > 0 && (*contents)[n-1].Role == apiRole {
		(*contents)[n-1].Parts = append((*contents)[n-1].Parts, part)
		return
	}

	*contents = append(*contents, apiContent{
		Role:  apiRole,
		Parts: []apiPart{part},
	})
}

func mapRole(r role.Role) string {
	if r == role.Assistant {
		return "model"
	}
	return "user"
}

// candidateText joins the visible text parts of a candidate. Thought
// summaries are skipped.
func candidateText(cand apiCandidate) string {
	var b strings.Builder
	for _, p := range cand.Content.Parts {
		if p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
