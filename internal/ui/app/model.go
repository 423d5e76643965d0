package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	insightdto "bjjflow/internal/modules/insight/dto"
	journaldto "bjjflow/internal/modules/journal/dto"
	"bjjflow/internal/ui/components"
	"bjjflow/internal/ui/theme"
	formview "bjjflow/internal/ui/views/form"
	insightview "bjjflow/internal/ui/views/insight"
	statsview "bjjflow/internal/ui/views/stats"
	timelineview "bjjflow/internal/ui/views/timeline"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type journalPort interface {
	Add(ctx context.Context, input journaldto.AddSessionInput) (journaldto.SessionOutput, error)
	Remove(ctx context.Context, id string, confirmed bool) (journaldto.RemoveOutput, error)
	List(ctx context.Context, query, from, to string) (journaldto.ListOutput, error)
	Stats(ctx context.Context, query, from, to string) (journaldto.StatsOutput, error)
	Export(ctx context.Context, dir string) (journaldto.ExportOutput, error)
}

type insightPort interface {
	Request(ctx context.Context) insightdto.InsightOutput
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimeline tabID = iota
	tabDashboard
	tabSensei
	tabCount
)

var tabLabels = [tabCount]string{"Timeline", "Dashboard", "Sensei"}

// ─── async messages ───────────────────────────────────────────────────────────

type sessionAddedMsg struct {
	out journaldto.SessionOutput
	err error
}

type sessionRemovedMsg struct {
	out journaldto.RemoveOutput
	err error
}

type exportedMsg struct {
	out journaldto.ExportOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Add     key.Binding
	Delete  key.Binding
	Search  key.Binding
	Insight key.Binding
	Cancel  key.Binding
	Reload  key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next tab")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "log session")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete session")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Insight: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "ask sensei")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel sensei")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Search, k.Insight, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Add, k.Delete, k.Reload},
		{k.Search, k.Insight, k.Cancel},
		{k.Help, k.Palette, k.Quit},
	}
}

var paletteHints = []string{
	"search <text>",
	"from <YYYY-MM-DD>",
	"to <YYYY-MM-DD>",
	"clear",
	"add",
	"delete",
	"insight",
	"stats",
	"export <dir>",
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the session
// editor, the delete confirmation and the command palette; journal and
// insight work goes through the ports.
type Model struct {
	journal journalPort
	insight insightPort
	profile string
	now     func() time.Time

	timeline    timelineview.Model
	dashboard   statsview.Model
	sensei      insightview.Model
	form        formview.Model
	showForm    bool
	confirm     components.Confirm
	palette     components.Palette
	activeTab   tabID
	keys        keyMap
	help        help.Model
	showHelp    bool
	status      string
	statusIsErr bool
	width       int
	height      int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(journal journalPort, insight insightPort, profile string, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	h := help.New()
	h.ShowAll = true
	return Model{
		journal:   journal,
		insight:   insight,
		profile:   profile,
		now:       now,
		timeline:  timelineview.New(journal, now),
		dashboard: statsview.New(journal, profile),
		sensei:    insightview.New(insight),
		palette:   components.NewPalette(paletteHints),
		keys:      defaultKeys(),
		help:      h,
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.timeline.Init(), m.dashboard.Init())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Overlays own the keyboard while open.
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		var cmd tea.Cmd
		switch {
		case m.palette.Visible():
			m.palette, cmd = m.palette.Update(keyMsg)
			return m, cmd
		case m.confirm.Visible():
			m.confirm, cmd = m.confirm.Update(keyMsg)
			return m, cmd
		case m.showForm:
			m.form, cmd = m.form.Update(keyMsg)
			return m, cmd
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		if m.showForm {
			m.form.SetWidth(min(m.width-4, 96))
		}
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case formview.SubmitMsg:
		return m, m.addCmd(msg.Input)

	case formview.CancelMsg:
		m.showForm = false
		m.setStatus("add cancelled", false)
		return m, nil

	case sessionAddedMsg:
		if msg.err != nil {
			m.form.SetError(msg.err)
			return m, nil
		}
		m.showForm = false
		m.setStatus("saved "+msg.out.DisplayTitle+" · "+msg.out.Date, false)
		cmd := m.reload()
		return m, cmd

	case components.ConfirmResultMsg:
		if !msg.Confirmed {
			m.setStatus("delete cancelled", false)
			return m, nil
		}
		return m, m.removeCmd(msg.Subject)

	case sessionRemovedMsg:
		switch {
		case msg.err != nil:
			m.setStatus("delete failed: "+msg.err.Error(), true)
			return m, nil
		case !msg.out.Removed:
			m.setStatus("session "+msg.out.ID+" no longer exists", true)
		default:
			m.setStatus("session deleted", false)
		}
		cmd := m.reload()
		return m, cmd

	case exportedMsg:
		if msg.err != nil {
			m.setStatus("export failed: "+msg.err.Error(), true)
		} else {
			m.setStatus(fmt.Sprintf("exported %d notes to %s", msg.out.Notes, msg.out.Dir), false)
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.setStatus("ready", false)
		return m, nil

	case insightview.ResultMsg:
		var cmd tea.Cmd
		m.sensei, cmd = m.sensei.Update(msg)
		if !m.sensei.Pending() && m.sensei.Text() != "" {
			m.setStatus("sensei answered", false)
		}
		return m, cmd

	case timelineview.LoadedMsg:
		if msg.Err != nil {
			m.setStatus("load failed: "+msg.Err.Error(), true)
		}

	case tea.KeyMsg:
		if m.showHelp {
			if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case msg.String() == "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case msg.String() == "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Palette):
			cmd := m.palette.Open("")
			return m, cmd
		case key.Matches(msg, m.keys.Search):
			cmd := m.palette.Open("search ")
			return m, cmd
		case key.Matches(msg, m.keys.Add):
			cmd := m.openForm()
			return m, cmd
		case key.Matches(msg, m.keys.Delete):
			m.askDelete()
			return m, nil
		case key.Matches(msg, m.keys.Insight):
			cmd := m.requestInsight()
			return m, cmd
		case key.Matches(msg, m.keys.Cancel):
			if m.sensei.Cancel() {
				m.setStatus("sensei request cancelled", false)
			}
			return m, nil
		case key.Matches(msg, m.keys.Reload):
			m.setStatus("reloaded", false)
			cmd := m.reload()
			return m, cmd
		}

		// Remaining keys scroll the active tab only.
		var cmd tea.Cmd
		switch m.activeTab {
		case tabTimeline:
			m.timeline, cmd = m.timeline.Update(msg)
		case tabSensei:
			m.sensei, cmd = m.sensei.Update(msg)
		}
		return m, cmd
	}

	// Everything else is broadcast; each view ignores what is not its own.
	var cmd tea.Cmd
	m.timeline, cmd = m.timeline.Update(msg)
	cmds = append(cmds, cmd)
	m.dashboard, cmd = m.dashboard.Update(msg)
	cmds = append(cmds, cmd)
	m.sensei, cmd = m.sensei.Update(msg)
	cmds = append(cmds, cmd)
	if m.showForm {
		m.form, cmd = m.form.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.confirm.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.confirm.View())
	case m.showForm:
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.form.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTimeline:
		return m.timeline.View()
	case tabDashboard:
		return m.dashboard.View()
	case tabSensei:
		return m.sensei.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "bjjflow  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.statusIsErr {
		left = theme.Error.Render(left)
	}
	if f := m.timeline.Filter(); f.Active() {
		left = theme.Tag.Render("filter "+f.String()) + "  " + left
	}
	if m.sensei.Pending() {
		left = theme.Hot.Render("● sensei") + "  " + left
	}
	right := theme.Muted.Render(m.profile + "  ?:help  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
	filter := m.timeline.Filter()

	switch parts[0] {
	case "search":
		filter.Query = rest
		cmd := m.applyFilter(filter)
		return m, cmd
	case "from":
		filter.From = rest
		cmd := m.applyFilter(filter)
		return m, cmd
	case "to":
		filter.To = rest
		cmd := m.applyFilter(filter)
		return m, cmd
	case "clear":
		cmd := m.applyFilter(timelineview.Filter{})
		return m, cmd
	case "add":
		cmd := m.openForm()
		return m, cmd
	case "delete":
		m.askDelete()
		return m, nil
	case "insight":
		cmd := m.requestInsight()
		return m, cmd
	case "stats":
		m.activeTab = tabDashboard
		cmd := m.dashboard.Reload()
		return m, cmd
	case "export":
		if rest == "" {
			m.setStatus("usage: export <dir>", true)
			return m, nil
		}
		return m, m.exportCmd(rest)
	default:
		m.setStatus("unknown command: "+parts[0], true)
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusIsErr = isErr
}

func (m *Model) applyFilter(f timelineview.Filter) tea.Cmd {
	m.activeTab = tabTimeline
	if f.Active() {
		m.setStatus("filter: "+f.String(), false)
	} else {
		m.setStatus("filter cleared", false)
	}
	return tea.Batch(m.timeline.SetFilter(f), m.dashboard.SetFilter(f.Query, f.From, f.To))
}

func (m *Model) openForm() tea.Cmd {
	m.form = formview.New(m.now().Format(time.DateOnly))
	m.form.SetWidth(min(m.width-4, 96))
	m.showForm = true
	return m.form.Init()
}

func (m *Model) askDelete() {
	s, ok := m.timeline.SelectedSession()
	if !ok {
		m.setStatus("no session selected", true)
		return
	}
	m.activeTab = tabTimeline
	m.confirm.Ask(fmt.Sprintf("Delete %q from %s?", s.DisplayTitle, s.Date), s.ID)
}

func (m *Model) requestInsight() tea.Cmd {
	m.activeTab = tabSensei
	m.setStatus("asking sensei…", false)
	return m.sensei.Request()
}

func (m *Model) reload() tea.Cmd {
	return tea.Batch(m.timeline.Reload(), m.dashboard.Reload())
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 4}
	m.timeline, _ = m.timeline.Update(sz)
	m.dashboard, _ = m.dashboard.Update(sz)
	m.sensei, _ = m.sensei.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) addCmd(input journaldto.AddSessionInput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.journal.Add(context.Background(), input)
		return sessionAddedMsg{out: out, err: err}
	}
}

func (m Model) removeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.journal.Remove(context.Background(), id, true)
		return sessionRemovedMsg{out: out, err: err}
	}
}

func (m Model) exportCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.journal.Export(context.Background(), dir)
		return exportedMsg{out: out, err: err}
	}
}
