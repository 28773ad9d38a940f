// Package styles holds the lipgloss styles shared by the terminal frontend.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/germanamz/humanizer/pkg/preset"
)

// Centralized style definitions.
var (
	// Prompt shown before each user line.
	PromptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan

	// Reply styles.
	AnswerPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")) // green
	AnswerBlockStyle  = lipgloss.NewStyle().PaddingLeft(1)

	// Spinner / animation styles.
	SpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta

	// General utility styles.
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray/dim
	StatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)
	ErrorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")) // red
	HintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))            // yellow

	// Welcome panel.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1)
)

const welcomeTitle = "🤖 Humanizer"

// Welcome renders the start-up panel naming the model and its sampling
// parameters.
func Welcome(p preset.Preset) string {
	return PanelStyle.Render(TitleStyle.Render(welcomeTitle) + "\n\n" + welcomeBody(p, DimStyle.Render))
}

// WelcomeText is Welcome without styling, for plain output.
func WelcomeText(p preset.Preset) string {
	return welcomeTitle + "\n\n" + welcomeBody(p, func(s ...string) string { return strings.Join(s, " ") })
}

func welcomeBody(p preset.Preset, dim func(...string) string) string {
	var sb strings.Builder
	sb.WriteString("This chatbot generates human-like text by manipulating:\n")
	sb.WriteString("• Perplexity (surprising word choices)\n")
	sb.WriteString("• Burstiness (varied sentence structures)\n")
	sb.WriteString("• AI pattern eradication (bans robotic phrases)\n")
	sb.WriteString("• Human voice injection (opinions, fragments, colloquialisms)\n\n")
	sb.WriteString("Model: " + p.Model + "\n")
	sb.WriteString("Parameters: " + p.Summary() + "\n\n")
	sb.WriteString(dim("Type 'exit' or 'quit' to end."))
	return sb.String()
}
