package engine

import (
	"fmt"
	"sync"

	"github.com/germanamz/humanizer/pkg/modeladapter"
	"github.com/germanamz/humanizer/pkg/preset"
	"github.com/germanamz/humanizer/pkg/providers/gemini"
	"github.com/germanamz/humanizer/pkg/providers/openai"
)

// ProviderFactory creates a Completer for a resolved preset.
type ProviderFactory func(p preset.Preset, apiKey string) (modeladapter.Completer, error)

var (
	factoryMu   sync.RWMutex
	factories   = map[preset.Vendor]ProviderFactory{}
	defaultsReg sync.Once
)

func ensureDefaults() {
	defaultsReg.Do(func() {
		factories[preset.Gemini] = newGemini
		factories[preset.OpenAI] = newOpenAI
	})
}

// RegisterProvider registers a custom provider factory under the given vendor.
// It can be called before New to extend the engine with additional vendors.
func RegisterProvider(vendor preset.Vendor, factory ProviderFactory) {
	ensureDefaults()

	factoryMu.Lock()
	defer factoryMu.Unlock()

	factories[vendor] = factory
}

// getFactory returns the factory for the given vendor.
func getFactory(vendor preset.Vendor) (ProviderFactory, bool) {
	ensureDefaults()

	factoryMu.RLock()
	defer factoryMu.RUnlock()

	f, ok := factories[vendor]
	return f, ok
}

func newGemini(p preset.Preset, apiKey string) (modeladapter.Completer, error) {
	baseURL := p.BaseURL
	if baseURL == "" {
		baseURL = gemini.DefaultBaseURL
	}

	a := gemini.New(baseURL, apiKey, p.Model)
	a.Sampling = a.Sampling.Merge(p.Sampling)
	a.InstructionAsTurns = p.InstructionAsTurns
	a.Acknowledgement = p.Acknowledgement

	return a, nil
}

func newOpenAI(p preset.Preset, apiKey string) (modeladapter.Completer, error) {
	baseURL := p.BaseURL
	if baseURL == "" {
		baseURL = openai.DefaultBaseURL
	}

	a := openai.New(baseURL, apiKey, p.Model)
	a.Sampling = a.Sampling.Merge(p.Sampling)

	return a, nil
}

// buildCompleter creates a Completer for p using the factory registered for
// its vendor.
func buildCompleter(p preset.Preset, apiKey string) (modeladapter.Completer, error) {
	factory, ok := getFactory(p.Vendor)
	if !ok {
		return nil, fmt.Errorf("engine: unknown vendor %q", p.Vendor)
	}

	c, err := factory(p, apiKey)
	if err != nil {
		return nil, fmt.Errorf("engine: preset %q: %w", p.Name, err)
	}

	return c, nil
}
