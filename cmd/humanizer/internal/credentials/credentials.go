// Package credentials finds the API key for the selected vendor.
package credentials

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrMissing is returned when no source produced a key.
var ErrMissing = errors.New("API key required")

// Prompter asks the person at the terminal for a secret.
type Prompter interface {
	Prompt(title string) (string, error)
}

// Source names where a key came from. It is logged; the key never is.
type Source string

const (
	FromConfig Source = "config"
	FromEnv    Source = "env"
	FromPrompt Source = "prompt"
)

// Request describes one lookup.
type Request struct {
	ConfigKey string // api_key from the config file, already env-expanded.
	EnvVar    string // e.g. GEMINI_API_KEY.
	Title     string // Prompt title, e.g. "Enter your Gemini API key".
}

// Resolve returns the first non-blank key from, in order, the config, the
// environment and the prompter. warn is called before prompting so the user
// knows why they are asked. A nil prompter skips the last step.
func Resolve(req Request, p Prompter, warn func(string)) (string, Source, error) {
	if key := strings.TrimSpace(req.ConfigKey); key != "" {
		return key, FromConfig, nil
	}

	if key := strings.TrimSpace(os.Getenv(req.EnvVar)); key != "" {
		return key, FromEnv, nil
	}

	if p == nil {
		return "", "", ErrMissing
	}

	if warn != nil {
		warn(req.EnvVar + " not found")
	}

	key, err := p.Prompt(req.Title)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, io.EOF) {
			return "", "", ErrMissing
		}
		return "", "", fmt.Errorf("credentials: prompt: %w", err)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", ErrMissing
	}

	return key, FromPrompt, nil
}

// FormPrompter asks with a masked huh input.
type FormPrompter struct{}

func (FormPrompter) Prompt(title string) (string, error) {
	var key string
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(title).
			EchoMode(huh.EchoModePassword).
			Value(&key),
	)).Run()
	return key, err
}

// LinePrompter reads one line from In. It is used when stdin is not a
// terminal, so the key can be piped in ahead of the conversation.
type LinePrompter struct {
	In  *bufio.Reader
	Out io.Writer
}

func (l LinePrompter) Prompt(title string) (string, error) {
	if l.Out != nil {
		fmt.Fprintf(l.Out, "%s: ", title)
	}
	line, err := l.In.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
