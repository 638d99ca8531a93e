// Package attemptspinner shows validation progress while a rewrite runs.
package attemptspinner

import (
	"fmt"
	"strings"
	"time"

	"github.com/alkime/carepost/internal/tui/style"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// AttemptMsg reports a finished validation attempt. Failures is empty when
// the attempt was accepted.
type AttemptMsg struct {
	Attempt  int
	Failures []string
}

// Model renders the spinner, the request being generated and how far the
// validation loop has got.
type Model struct {
	Spinner     spinner.Model
	Title       string
	Subtitle    string
	MaxAttempts int

	// Attempt is the last finished attempt, zero before the first one.
	Attempt      int
	LastFailures []string
}

// New creates a spinner for a loop bounded by maxAttempts.
func New(title, subtitle string, maxAttempts int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Pulse

	return Model{
		Spinner:     sp,
		Title:       title,
		Subtitle:    subtitle,
		MaxAttempts: max(maxAttempts, 1),
	}
}

func (m Model) Init() tea.Cmd {
	return m.Spinner.Tick
}

// Update handles spinner ticks and attempt reports.
func (m Model) Update(teaMsg tea.Msg) (Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)

		return m, cmd

	case AttemptMsg:
		// Reports can arrive out of order from the observer goroutine.
		if msg.Attempt > m.Attempt {
			m.Attempt = msg.Attempt
			m.LastFailures = msg.Failures
		}
	}

	return m, nil
}

// Progress describes the attempt currently running.
func (m Model) Progress() string {
	current := min(m.Attempt+1, m.MaxAttempts)
	line := fmt.Sprintf("attempt %d/%d", current, m.MaxAttempts)
	if len(m.LastFailures) > 0 {
		line += " · last failed: " + strings.Join(m.LastFailures, ", ")
	}

	return line
}

// View renders the spinner with the time spent so far.
func (m Model) View(elapsed time.Duration) string {
	var sb strings.Builder

	sb.WriteString(m.Spinner.View())
	sb.WriteString(" ")
	sb.WriteString(style.Title.Render(m.Title))
	sb.WriteString("\n\n")

	sb.WriteString(style.Subtitle.Render(m.Subtitle))
	sb.WriteString("\n\n")

	sb.WriteString(m.Progress())
	sb.WriteString("\n")
	sb.WriteString(style.Help.Render(fmt.Sprintf("(%s)", elapsed.Truncate(time.Second))))

	return sb.String()
}
