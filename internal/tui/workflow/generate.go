// Package workflow holds the terminal views for interactive generation.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alkime/carepost/internal/content"
	"github.com/alkime/carepost/internal/rewrite"
	"github.com/alkime/carepost/internal/tui/components/attemptspinner"
	"github.com/alkime/carepost/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Rewriter runs one sheet-driven rewrite.
type Rewriter interface {
	Rewrite(ctx context.Context, req rewrite.Request) (rewrite.Result, error)
}

type generateKeyMap struct {
	Quit key.Binding
}

func defaultGenerateKeyMap() generateKeyMap {
	return generateKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// generatedMsg carries the outcome of the background rewrite.
type generatedMsg struct {
	result rewrite.Result
	err    error
}

// Generate shows attempt progress while a rewrite runs, then the titles and
// the body laid out for reading.
type Generate struct {
	ctx      context.Context
	rewriter Rewriter
	req      rewrite.Request
	progress *Progress
	spinner  attemptspinner.Model
	keys     generateKeyMap
	viewport viewport.Model

	started time.Time
	done    bool
	result  rewrite.Result
	err     error
	width   int
	height  int
}

// NewGenerate creates the generation view for req. The rewriter should
// report to progress, which may be nil when attempt reports are not wanted.
func NewGenerate(ctx context.Context, rewriter Rewriter, req rewrite.Request, progress *Progress, maxAttempts int) *Generate {
	return &Generate{
		ctx:      ctx,
		rewriter: rewriter,
		req:      req,
		progress: progress,
		spinner: attemptspinner.New(
			"Generating post...",
			fmt.Sprintf("%s · %s", req.CenterID, req.Keyword1),
			maxAttempts,
		),
		keys:   defaultGenerateKeyMap(),
		width:  80,
		height: 24,
	}
}

// Result returns the rewrite outcome once the view has finished.
func (g *Generate) Result() (rewrite.Result, error) {
	return g.result, g.err
}

func (g *Generate) Init() tea.Cmd {
	g.started = time.Now()

	cmds := []tea.Cmd{g.spinner.Init(), g.generateCmd()}
	if g.progress != nil {
		cmds = append(cmds, g.progress.next())
	}

	return tea.Batch(cmds...)
}

func (g *Generate) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
		if g.done {
			g.setupViewport()
		}

		return g, nil

	case attemptspinner.AttemptMsg:
		g.spinner, _ = g.spinner.Update(msg)
		if g.done {
			return g, nil
		}

		return g, g.progress.next()

	case generatedMsg:
		g.done = true
		g.result = msg.result
		g.err = msg.err
		g.setupViewport()

		return g, nil

	case tea.KeyMsg:
		if key.Matches(msg, g.keys.Quit) {
			return g, tea.Quit
		}
	}

	if !g.done {
		var cmd tea.Cmd
		g.spinner, cmd = g.spinner.Update(teaMsg)

		return g, cmd
	}

	var cmd tea.Cmd
	g.viewport, cmd = g.viewport.Update(teaMsg)

	return g, cmd
}

func (g *Generate) View() string {
	if !g.done {
		return g.spinner.View(time.Since(g.started))
	}

	var sb strings.Builder
	if g.err != nil {
		sb.WriteString(style.Error.Render("Generation failed"))
		sb.WriteString("\n\n")
		sb.WriteString(wrapText(g.err.Error(), g.width-2))
		sb.WriteString("\n\n")
		sb.WriteString(renderKeyHelp(g.keys.Quit))

		return sb.String()
	}

	meta := g.result.Meta
	sb.WriteString(style.Title.Render(fmt.Sprintf("=== %s · %s ===", meta.CenterName, meta.Keyword1)))
	sb.WriteString("\n")
	sb.WriteString(style.Subtitle.Render(fmt.Sprintf("%s · %s after %d attempt(s)", meta.Mode, meta.State, meta.Attempts)))
	sb.WriteString("\n\n")

	sb.WriteString(style.Label.Render("Titles:"))
	sb.WriteString("\n")
	for _, t := range displayTitles(g.result.Text) {
		sb.WriteString(style.Bullet.Render("• "))
		sb.WriteString(t)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(style.Viewport.Render(g.viewport.View()))
	sb.WriteString("\n\n")
	sb.WriteString(renderKeyHelp(g.keys.Quit))

	return sb.String()
}

func (g *Generate) generateCmd() tea.Cmd {
	return func() tea.Msg {
		res, err := g.rewriter.Rewrite(g.ctx, g.req)

		return generatedMsg{result: res, err: err}
	}
}

func (g *Generate) setupViewport() {
	headerHeight := 4 + content.TitleCount + 2
	footerHeight := 3
	viewportHeight := max(g.height-headerHeight-footerHeight, 5)
	viewportWidth := max(g.width-4, 10)

	g.viewport = viewport.New(viewportWidth, viewportHeight)
	g.viewport.SetContent(wrapText(content.FormatForReadability(content.ExtractBody(g.result.Text)), viewportWidth))
}

// displayTitles prefers the marked title block and falls back to the
// leading lines of unmarked text.
func displayTitles(doc string) []string {
	if titles := content.ExtractTitles(doc); len(titles) > 0 {
		return titles
	}

	return content.SplitTitles(doc)
}

func renderKeyHelp(b key.Binding) string {
	h := b.Help()

	return style.Key.Render(h.Key) + style.Help.Render(" "+h.Desc)
}

// wrapText wraps text to width so long lines wrap instead of being truncated
// in the viewport.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	return lipgloss.NewStyle().Width(width).Render(text)
}
