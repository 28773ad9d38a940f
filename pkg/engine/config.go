package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/germanamz/humanizer/pkg/modeladapter"
	"github.com/germanamz/humanizer/pkg/preset"
)

// DefaultConfigPath is looked up in the working directory when no config file
// is named explicitly.
const DefaultConfigPath = "humanizer.yaml"

// Config holds the user's overrides on top of a built-in preset. Every field
// is optional; the zero Config runs the default preset unchanged.
type Config struct {
	Preset      string                `yaml:"preset"`
	Model       string                `yaml:"model"`
	BaseURL     string                `yaml:"base_url"`
	APIKey      string                `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	Instruction string                `yaml:"instruction"`
	MaxTurns    int                   `yaml:"max_turns"`
	Sampling    modeladapter.Sampling `yaml:"sampling"`
}

// LoadConfig reads a YAML file and returns a Config.
// Environment variables referenced as ${VAR} or $VAR in the YAML are expanded
// before parsing, so the API key can live in the environment (or a .env
// file) instead of the config.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("engine: load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config: %w", err)
	}

	return cfg, nil
}

// LoadConfigIfExists behaves like LoadConfig but returns the zero Config when
// the file does not exist.
func LoadConfigIfExists(path string) (Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.Preset != "" {
		if _, err := preset.Lookup(c.Preset); err != nil {
			return fmt.Errorf("engine: config: %w", err)
		}
	}

	if c.MaxTurns < 0 {
		return fmt.Errorf("engine: config: max_turns %d must not be negative", c.MaxTurns)
	}

	if err := c.Sampling.Validate(); err != nil {
		return fmt.Errorf("engine: config: sampling: %w", err)
	}

	return nil
}

// Resolve validates cfg and applies it on top of the preset it names (or
// preset.Default). The returned preset is what the Engine runs with.
func Resolve(cfg Config) (preset.Preset, error) {
	if err := cfg.Validate(); err != nil {
		return preset.Preset{}, err
	}

	name := cfg.Preset
	if strings.TrimSpace(name) == "" {
		name = preset.Default
	}

	p, err := preset.Lookup(name)
	if err != nil {
		return preset.Preset{}, fmt.Errorf("engine: config: %w", err)
	}

	if cfg.Model != "" {
		p.Model = cfg.Model
	}
	if cfg.BaseURL != "" {
		p.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Instruction != "" {
		p.Instruction = cfg.Instruction
	}
	p.Sampling = p.Sampling.Merge(cfg.Sampling)

	if err := p.Validate(); err != nil {
		return preset.Preset{}, fmt.Errorf("engine: %w", err)
	}

	return p, nil
}
