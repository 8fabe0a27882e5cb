package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type redirectDoneMsg struct {
	err error
}

// redirectWaitModel shows where the browser is expected to land and how much
// of the setup timeout is left.
type redirectWaitModel struct {
	spinner     spinner.Model
	service     string
	redirectURI string
	deadline    time.Time
	now         time.Time
	wait        tea.Cmd
	uriStyle    lipgloss.Style
	err         error
	done        bool
}

func newRedirectWaitModel(service, redirectURI string, started time.Time, timeout time.Duration, wait tea.Cmd) redirectWaitModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return redirectWaitModel{
		spinner:     s,
		service:     service,
		redirectURI: redirectURI,
		deadline:    started.Add(timeout),
		now:         started,
		wait:        wait,
		uriStyle:    lipgloss.NewStyle().Underline(true),
	}
}

func (m redirectWaitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.wait)
}

func (m redirectWaitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !msg.Time.IsZero() {
			m.now = msg.Time
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case redirectDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m redirectWaitModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s Waiting for %s to redirect to %s (%s left)",
		m.spinner.View(), m.service, m.uriStyle.Render(m.redirectURI), m.remaining())
}

func (m redirectWaitModel) remaining() time.Duration {
	left := m.deadline.Sub(m.now).Truncate(time.Second)
	if left < 0 {
		return 0
	}
	return left
}

// runRedirectWait renders the countdown on output until wait returns or ctx is done.
func runRedirectWait(ctx context.Context, output io.Writer, service, redirectURI string, timeout time.Duration, wait func(context.Context) error) error {
	waitCmd := func() tea.Msg {
		return redirectDoneMsg{err: wait(ctx)}
	}

	p := tea.NewProgram(
		newRedirectWaitModel(service, redirectURI, time.Now(), timeout, waitCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		return err
	}

	result, ok := finalModel.(redirectWaitModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
