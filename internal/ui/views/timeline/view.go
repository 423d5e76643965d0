package timeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	journaldto "bjjflow/internal/modules/journal/dto"
	"bjjflow/internal/ui/theme"
)

type Port interface {
	List(ctx context.Context, query, from, to string) (journaldto.ListOutput, error)
}

// Filter is the active search: free text plus optional YYYY-MM-DD bounds.
type Filter struct {
	Query string
	From  string
	To    string
}

func (f Filter) Active() bool {
	return f.Query != "" || f.From != "" || f.To != ""
}

func (f Filter) String() string {
	parts := make([]string, 0, 3)
	if f.Query != "" {
		parts = append(parts, fmt.Sprintf("%q", f.Query))
	}
	if f.From != "" {
		parts = append(parts, "from "+f.From)
	}
	if f.To != "" {
		parts = append(parts, "to "+f.To)
	}
	return strings.Join(parts, " ")
}

// LoadedMsg carries one List result. Seq ties it to the Reload that asked
// for it; results from superseded reloads are dropped.
type LoadedMsg struct {
	Seq    int
	Output journaldto.ListOutput
	Err    error
}

type sessionItem struct {
	session journaldto.SessionOutput
	now     time.Time
}

func (i sessionItem) Title() string { return i.session.DisplayTitle }

func (i sessionItem) Description() string {
	when := i.session.Date
	if rel := RelativeDay(i.session.Date, i.now); rel != "" {
		when += " (" + rel + ")"
	}
	return fmt.Sprintf("%s · %s · %d min · %s", when, i.session.Type, i.session.Duration, IntensityDots(i.session.Intensity))
}

func (i sessionItem) FilterValue() string { return i.session.DisplayTitle }

type Model struct {
	port    Port
	now     func() time.Time
	list    list.Model
	detail  viewport.Model
	spinner spinner.Model
	filter  Filter
	seq     int
	total   int
	err     error
	loading bool
	width   int
	height  int
}

func New(port Port, now func() time.Time) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Timeline"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	// Searching goes through the journal query so it reaches positions,
	// drills and notes, not only titles.
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	if now == nil {
		now = time.Now
	}
	return Model{port: port, now: now, list: l, detail: vp, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spinner.Tick)
}

// Reload re-reads the journal with the current filter. Any load still in
// flight is superseded.
func (m *Model) Reload() tea.Cmd {
	m.seq++
	return m.load()
}

func (m Model) load() tea.Cmd {
	port, f, seq := m.port, m.filter, m.seq
	return func() tea.Msg {
		out, err := port.List(context.Background(), f.Query, f.From, f.To)
		return LoadedMsg{Seq: seq, Output: out, Err: err}
	}
}

func (m *Model) SetFilter(f Filter) tea.Cmd {
	m.filter = f
	return m.Reload()
}

func (m Model) Filter() Filter { return m.filter }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.total = msg.Output.Total
		now := m.now()
		items := make([]list.Item, len(msg.Output.Sessions))
		for i, s := range msg.Output.Sessions {
			items[i] = sessionItem{session: s, now: now}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.list.Title = m.title()
		m.detail.SetContent(m.renderDetail())
		m.detail.GotoTop()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		prevIdx := m.list.Index()
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.detail.SetContent(m.renderDetail())
			m.detail.GotoTop()
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading journal…")
	}
	if m.err != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Error.Render("Could not load the journal: "+m.err.Error()))
	}
	if len(m.list.Items()) == 0 {
		msg := "No sessions yet. Press a to log your first training."
		if m.total > 0 {
			msg = "No sessions match " + m.filter.String() + ". Type :clear to reset the filter."
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, theme.Muted.Render(msg))
	}

	listW := m.width * 45 / 100
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detailPane := theme.Pane.Width(detailW - 2).Height(m.height - 2).Render(m.detail.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedSession returns the highlighted session, if any.
func (m Model) SelectedSession() (journaldto.SessionOutput, bool) {
	if item, ok := m.list.SelectedItem().(sessionItem); ok {
		return item.session, true
	}
	return journaldto.SessionOutput{}, false
}

func (m Model) Len() int { return len(m.list.Items()) }

func (m *Model) resize() {
	listW := m.width * 45 / 100
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 2
	m.detail.SetContent(m.renderDetail())
}

func (m Model) title() string {
	if m.filter.Active() {
		return fmt.Sprintf("Timeline · %s · %d of %d", m.filter.String(), len(m.list.Items()), m.total)
	}
	return "Timeline"
}

func (m Model) renderDetail() string {
	s, ok := m.SelectedSession()
	if !ok {
		return theme.Muted.Render("Select a session to see details")
	}
	return RenderCard(s, m.now(), m.detail.Width)
}

// RenderCard draws one session the way the journal cards show it.
func RenderCard(s journaldto.SessionOutput, now time.Time, width int) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(s.DisplayTitle) + "\n")
	when := s.Date
	if rel := RelativeDay(s.Date, now); rel != "" {
		when += " · " + rel
	}
	sb.WriteString(theme.TypeBadge(s.Type).Render(s.Type) + "  " + theme.Muted.Render(when) + "\n\n")

	sb.WriteString(theme.Muted.Render("duration   ") + fmt.Sprintf("%d min", s.Duration) + "\n")
	sb.WriteString(theme.Muted.Render("intensity  ") + theme.Intensity(s.Intensity).Render(fmt.Sprintf("%s %d/%d", IntensityDots(s.Intensity), s.Intensity, journaldto.MaxIntensity)) + "\n")
	if s.Coach != "" {
		sb.WriteString(theme.Muted.Render("coach      ") + s.Coach + "\n")
	}
	if len(s.Partners) > 0 {
		sb.WriteString(theme.Muted.Render("partners   ") + strings.Join(s.Partners, ", ") + "\n")
	}
	if len(s.Positions) > 0 {
		sb.WriteString("\n" + theme.Hot.Render("Positions") + "\n" + tags(s.Positions, width) + "\n")
	}
	if len(s.Drills) > 0 {
		sb.WriteString("\n" + theme.Hot.Render("Drills") + "\n" + tags(s.Drills, width) + "\n")
	}
	if strings.TrimSpace(s.Notes) != "" {
		notes := s.Notes
		if width > 0 {
			notes = lipgloss.NewStyle().Width(width).Render(notes)
		}
		sb.WriteString("\n" + theme.Hot.Render("Notes") + "\n" + notes + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("id "+s.ID))
	return sb.String()
}

func tags(items []string, width int) string {
	rendered := make([]string, 0, len(items))
	for _, item := range items {
		rendered = append(rendered, theme.Tag.Render(item))
	}
	line := strings.Join(rendered, " ")
	if width > 0 {
		return lipgloss.NewStyle().Width(width).Render(line)
	}
	return line
}

// IntensityDots renders a rating as filled and empty dots, clamped to the
// 1..5 scale for display only.
func IntensityDots(level int) string {
	filled := level
	if filled < 0 {
		filled = 0
	}
	if filled > journaldto.MaxIntensity {
		filled = journaldto.MaxIntensity
	}
	return strings.Repeat("●", filled) + strings.Repeat("○", journaldto.MaxIntensity-filled)
}

// RelativeDay describes a YYYY-MM-DD date relative to now's calendar day.
func RelativeDay(date string, now time.Time) string {
	d, err := time.ParseInLocation(time.DateOnly, date, now.Location())
	if err != nil {
		return ""
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch days := int(today.Sub(d).Hours() / 24); days {
	case 0:
		return "today"
	case 1:
		return "yesterday"
	case -1:
		return "tomorrow"
	default:
		return humanize.RelTime(d, today, "ago", "from now")
	}
}
