package render

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/humanizer/cmd/humanizer/internal/styles"
)

type result struct {
	text string
	err  error
}

type resultMsg result

// waitModel shows a spinner until the request it watches finishes.
type waitModel struct {
	spinner spinner.Model
	label   string
	results <-chan result
	res     *result
}

func newWaitModel(label string, results <-chan result) waitModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle
	return waitModel{spinner: s, label: label, results: results}
}

func (m waitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForResult)
}

func (m waitModel) waitForResult() tea.Msg {
	return resultMsg(<-m.results)
}

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		r := result(msg)
		m.res = &r
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m waitModel) View() string {
	if m.res != nil {
		return ""
	}
	return m.spinner.View() + " " + styles.HintStyle.Render(m.label)
}

// runSpinner runs fn in the background and animates a spinner on out until it
// returns. The program reads no input, so Ctrl-C still raises SIGINT and
// cancels ctx through the caller's signal handling.
func runSpinner(ctx context.Context, out io.Writer, label string, fn func(context.Context) (string, error)) (string, error) {
	results := make(chan result, 1)
	done := make(chan result, 1)
	go func() {
		text, err := fn(ctx)
		r := result{text: text, err: err}
		done <- r
		results <- r
	}()

	p := tea.NewProgram(newWaitModel(label, results),
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(out),
		tea.WithoutSignalHandler(),
	)

	final, err := p.Run()
	if m, ok := final.(waitModel); ok && err == nil && m.res != nil {
		return m.res.text, m.res.err
	}

	// The program stopped early (ctx canceled or terminal failure); wait for
	// fn so the caller never races with it.
	r := <-done
	return r.text, r.err
}
