// Package preset defines the named model/prompt/sampling bundles the chatbot
// can run with. A Preset is built once at start-up and only read afterwards.
package preset

import (
	"fmt"
	"slices"
	"strings"

	"github.com/germanamz/humanizer/pkg/modeladapter"
)

// Vendor identifies the remote API a preset talks to.
type Vendor string

const (
	Gemini Vendor = "gemini"
	OpenAI Vendor = "openai"
)

// KeyEnv returns the environment variable holding the vendor's API key.
func (v Vendor) KeyEnv() string {
	switch v {
	case Gemini:
		return "GEMINI_API_KEY"
	case OpenAI:
		return "OPENAI_API_KEY"
	}
	return strings.ToUpper(string(v)) + "_API_KEY"
}

// Preset is one complete chatbot configuration.
type Preset struct {
	Name    string
	Vendor  Vendor
	Model   string
	BaseURL string // Empty means the vendor default.

	Instruction string
	// InstructionAsTurns sends Instruction as a user turn plus Acknowledgement
	// instead of a system message (Gemini only).
	InstructionAsTurns bool
	Acknowledgement    string

	Sampling modeladapter.Sampling
}

// Default is the preset used when none is named.
const Default = "gemini"

var builtin = map[string]Preset{
	"gemini": {
		Name:               "gemini",
		Vendor:             Gemini,
		Model:              "gemini-2.5-pro-preview-06-05",
		Instruction:        HumanizeInstruction,
		InstructionAsTurns: true,
		Acknowledgement:    Acknowledgement,
		Sampling: modeladapter.Sampling{
			Temperature: 0.95,
			TopP:        0.92,
			TopK:        50,
			MaxTokens:   2048,
		},
	},
	"gemini-flash": {
		Name:        "gemini-flash",
		Vendor:      Gemini,
		Model:       "gemini-2.5-flash",
		Instruction: HumanizeInstruction,
		Sampling: modeladapter.Sampling{
			Temperature:      0.95,
			TopP:             0.92,
			TopK:             50,
			PresencePenalty:  0.4,
			FrequencyPenalty: 0.3,
			MaxTokens:        2048,
		},
	},
	"openai": {
		Name:        "openai",
		Vendor:      OpenAI,
		Model:       "gpt-4o",
		Instruction: HumanizeInstruction,
		Sampling: modeladapter.Sampling{
			Temperature:      0.95,
			TopP:             0.92,
			PresencePenalty:  0.4,
			FrequencyPenalty: 0.3,
			MaxTokens:        2048,
		},
	},
	"openai-mini": {
		Name:        "openai-mini",
		Vendor:      OpenAI,
		Model:       "gpt-4o-mini",
		Instruction: HumanizeInstruction,
		Sampling: modeladapter.Sampling{
			Temperature:      1.0,
			TopP:             0.9,
			PresencePenalty:  0.6,
			FrequencyPenalty: 0.5,
			MaxTokens:        2048,
		},
	},
	// Reasoning models reject temperature and top_p.
	"gpt5": {
		Name:        "gpt5",
		Vendor:      OpenAI,
		Model:       "gpt-5",
		Instruction: HumanizeInstruction,
		Sampling: modeladapter.Sampling{
			MaxTokens:       4096,
			ReasoningEffort: "minimal",
			Verbosity:       "medium",
		},
	},
}

// Lookup returns the built-in preset with the given name. Names are
// case-insensitive.
func Lookup(name string) (Preset, error) {
	p, ok := builtin[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, fmt.Errorf("preset: unknown preset %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names lists the built-in presets in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Validate checks the preset is usable.
func (p Preset) Validate() error {
	if p.Vendor == "" {
		return fmt.Errorf("preset %q: vendor is required", p.Name)
	}
	if p.Model == "" {
		return fmt.Errorf("preset %q: model is required", p.Name)
	}
	if p.InstructionAsTurns && p.Vendor != Gemini {
		return fmt.Errorf("preset %q: instruction_as_turns is only supported for %s", p.Name, Gemini)
	}
	if err := p.Sampling.Validate(); err != nil {
		return fmt.Errorf("preset %q: %w", p.Name, err)
	}
	return nil
}

// Summary renders the sampling parameters for the welcome banner, e.g.
// "temperature=0.95, top_p=0.92, top_k=50".
func (p Preset) Summary() string {
	s := p.Sampling
	var parts []string
	add := func(name string, set bool, v any) {
		if set {
			parts = append(parts, fmt.Sprintf("%s=%v", name, v))
		}
	}

	add("temperature", s.Temperature != 0, s.Temperature)
	add("top_p", s.TopP != 0, s.TopP)
	add("top_k", s.TopK != 0 && p.Vendor == Gemini, s.TopK)
	add("presence_penalty", s.PresencePenalty != 0, s.PresencePenalty)
	add("frequency_penalty", s.FrequencyPenalty != 0, s.FrequencyPenalty)
	add("max_tokens", s.MaxTokens != 0, s.MaxTokens)
	add("reasoning_effort", s.ReasoningEffort != "", s.ReasoningEffort)
	add("verbosity", s.Verbosity != "", s.Verbosity)

	if len(parts) == 0 {
		return "vendor defaults"
	}
	return strings.Join(parts, ", ")
}
