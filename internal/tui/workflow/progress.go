package workflow

import (
	"time"

	"github.com/alkime/carepost/internal/rewrite"
	"github.com/alkime/carepost/internal/tui/components/attemptspinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Progress forwards attempt results from the rewrite loop to a Generate
// view. It implements rewrite.Observer; events other than attempts are
// dropped.
type Progress struct {
	attempts chan attemptspinner.AttemptMsg
}

var _ rewrite.Observer = (*Progress)(nil)

// NewProgress creates an observer with room for a full loop of reports.
func NewProgress() *Progress {
	return &Progress{attempts: make(chan attemptspinner.AttemptMsg, 16)}
}

func (p *Progress) AttemptFinished(attempt int, failures []string) {
	select {
	case p.attempts <- attemptspinner.AttemptMsg{Attempt: attempt, Failures: failures}:
	default:
	}
}

func (p *Progress) LoopFinished(string)                {}
func (p *Progress) CorrectorApplied(bool)              {}
func (p *Progress) BackendCalled(time.Duration, error) {}
func (p *Progress) AuditAppended(error)                {}

// next waits for the following attempt report.
func (p *Progress) next() tea.Cmd {
	return func() tea.Msg {
		return <-p.attempts
	}
}
