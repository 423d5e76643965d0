package insight

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	insightdto "bjjflow/internal/modules/insight/dto"
	"bjjflow/internal/ui/theme"
)

type Port interface {
	Request(ctx context.Context) insightdto.InsightOutput
}

// ResultMsg is tagged with the request that produced it so a late answer
// from a cancelled request is dropped.
type ResultMsg struct {
	Seq    int
	Output insightdto.InsightOutput
}

type Model struct {
	port     Port
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	cancel   context.CancelFunc
	seq      int
	pending  bool
	last     insightdto.InsightOutput
	has      bool
	width    int
	height   int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Peach)
	return Model{port: port, viewport: viewport.New(0, 0), spinner: sp}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Pending() bool { return m.pending }

// Request starts a new insight. Any request still in flight is cancelled
// first so only the newest answer is shown.
func (m *Model) Request() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.seq++
	m.pending = true
	seq := m.seq
	port := m.port
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return ResultMsg{Seq: seq, Output: port.Request(ctx)}
	})
}

// Cancel abandons the request in flight, if any.
func (m *Model) Cancel() bool {
	if !m.pending {
		return false
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.pending = false
	m.seq++
	return true
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 2
		m.renderer = nil
		if m.has {
			m.viewport.SetContent(m.render(m.last.Text))
		}
		return m, nil

	case ResultMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.pending = false
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		m.last = msg.Output
		m.has = true
		m.viewport.SetContent(m.render(msg.Output.Text))
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := theme.Title.Render("Sensei AI")
	switch {
	case m.pending:
		return header + "\n\n" + m.spinner.View() + " Sensei is reviewing your last sessions… " + theme.Muted.Render("(esc to cancel)")
	case !m.has:
		return header + "\n\n" + theme.Muted.Render("Press i to ask Sensei for feedback on your recent training.")
	}
	status := ""
	if m.last.Outcome == "failed" {
		status = " " + theme.Error.Render("unavailable")
	}
	return header + status + "\n" + m.viewport.View()
}

// Text is the last answer shown, or "" before the first one.
func (m Model) Text() string { return m.last.Text }

func (m *Model) render(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if m.renderer == nil {
		width := m.width - 4
		if width < 40 {
			width = 80
		}
		r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(width))
		if err != nil {
			return text
		}
		m.renderer = r
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return out
}
