// internal/tui/spinner.go
// Package tui shows a busy indicator while an audit is being acquired.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/mwiater/ecoaudit/internal/audit"
)

const (
	// DefaultLabel is shown next to the spinner.
	DefaultLabel = "Running Audit..."
	// DefaultHint explains why the wait may be long.
	DefaultHint = "CodeCarbon is measuring energy consumption. This may take a while…"
)

// ErrInterrupted is returned when the user aborts with ctrl+c.
var ErrInterrupted = errors.New("audit interrupted")

// AcquireFunc performs the blocking acquisition.
type AcquireFunc func(ctx context.Context) (*audit.Result, error)

type acquiredMsg struct {
	res *audit.Result
	err error
}

type tickMsg time.Time

type model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	acquire AcquireFunc

	label   string
	hint    string
	spinner spinner.Model
	started time.Time

	done bool
	res  *audit.Result
	err  error
}

func newModel(ctx context.Context, label, hint string, acquire AcquireFunc) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ctx, cancel := context.WithCancel(ctx)
	return &model{
		ctx:     ctx,
		cancel:  cancel,
		acquire: acquire,
		label:   label,
		hint:    hint,
		spinner: s,
		started: time.Now(),
	}
}

// acquireCmd runs the acquisition off the UI loop.
func acquireCmd(ctx context.Context, acquire AcquireFunc) tea.Cmd {
	return func() tea.Msg {
		res, err := acquire(ctx)
		return acquiredMsg{res: res, err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, acquireCmd(m.ctx, m.acquire), tickCmd())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done, m.err = true, ErrInterrupted
			return m, tea.Quit
		}
	case acquiredMsg:
		m.cancel()
		m.done, m.res, m.err = true, msg.res, msg.err
		return m, tea.Quit
	case tickMsg:
		if !m.done {
			return m, tickCmd()
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) View() string {
	if m.done {
		return ""
	}
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	timer := fmt.Sprintf("%.1f", time.Since(m.started).Seconds())
	return fmt.Sprintf("\n  %s %s %ss\n  %s\n", m.spinner.View(), m.label, timer, hintStyle.Render(m.hint))
}

// RunWithSpinner calls acquire while a spinner is drawn on out. When out is
// not a terminal the spinner is skipped and acquire runs directly.
func RunWithSpinner(ctx context.Context, out io.Writer, label string, acquire AcquireFunc) (*audit.Result, error) {
	if !IsTerminal(out) {
		return acquire(ctx)
	}
	if label == "" {
		label = DefaultLabel
	}
	m := newModel(ctx, label, DefaultHint, acquire)
	defer m.cancel()

	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(out)).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	fm := final.(*model)
	return fm.res, fm.err
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
