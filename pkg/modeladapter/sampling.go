package modeladapter

import "fmt"

// Sampling is the vendor-neutral set of generation parameters. Zero values
// mean "leave the vendor default"; adapters omit them from the request.
// Vendors that do not support a field (e.g. top-k on OpenAI) ignore it.
type Sampling struct {
	Temperature      float64 `yaml:"temperature"`
	TopP             float64 `yaml:"top_p"`
	TopK             int     `yaml:"top_k"`
	PresencePenalty  float64 `yaml:"presence_penalty"`
	FrequencyPenalty float64 `yaml:"frequency_penalty"`
	MaxTokens        int     `yaml:"max_tokens"`
	ReasoningEffort  string  `yaml:"reasoning_effort"`
	Verbosity        string  `yaml:"verbosity"`
}

// Merge returns s with every non-zero field of override applied on top.
func (s Sampling) Merge(override Sampling) Sampling {
	if override.Temperature != 0 {
		s.Temperature = override.Temperature
	}
	if override.TopP != 0 {
		s.TopP = override.TopP
	}
	if override.TopK != 0 {
		s.TopK = override.TopK
	}
	if override.PresencePenalty != 0 {
		s.PresencePenalty = override.PresencePenalty
	}
	if override.FrequencyPenalty != 0 {
		s.FrequencyPenalty = override.FrequencyPenalty
	}
	if override.MaxTokens != 0 {
		s.MaxTokens = override.MaxTokens
	}
	if override.ReasoningEffort != "" {
		s.ReasoningEffort = override.ReasoningEffort
	}
	if override.Verbosity != "" {
		s.Verbosity = override.Verbosity
	}
	return s
}

// Validate checks that every field is inside the range the vendors accept.
func (s Sampling) Validate() error {
	if s.Temperature < 0 || s.Temperature > 2 {
		return fmt.Errorf("temperature %v out of range [0, 2]", s.Temperature)
	}
	if s.TopP < 0 || s.TopP > 1 {
		return fmt.Errorf("top_p %v out of range [0, 1]", s.TopP)
	}
	if s.TopK < 0 {
		return fmt.Errorf("top_k %d must not be negative", s.TopK)
	}
	if s.PresencePenalty < -2 || s.PresencePenalty > 2 {
		return fmt.Errorf("presence_penalty %v out of range [-2, 2]", s.PresencePenalty)
	}
	if s.FrequencyPenalty < -2 || s.FrequencyPenalty > 2 {
		return fmt.Errorf("frequency_penalty %v out of range [-2, 2]", s.FrequencyPenalty)
	}
	if s.MaxTokens < 0 {
		return fmt.Errorf("max_tokens %d must not be negative", s.MaxTokens)
	}
	switch s.ReasoningEffort {
	case "", "minimal", "low", "medium", "high":
	default:
		return fmt.Errorf("unknown reasoning_effort %q", s.ReasoningEffort)
	}
	switch s.Verbosity {
	case "", "low", "medium", "high":
	default:
		return fmt.Errorf("unknown verbosity %q", s.Verbosity)
	}
	return nil
}

// optional returns a pointer to v, or nil when v is the zero value. Adapters
// use it to leave unset parameters out of the JSON body.
func optional[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

// Float returns a pointer to v, or nil when v is zero.
func Float(v float64) *float64 { return optional(v) }

// Int returns a pointer to v, or nil when v is zero.
func Int(v int) *int { return optional(v) }
