package stats

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	journaldto "bjjflow/internal/modules/journal/dto"
	"bjjflow/internal/ui/theme"
)

type Port interface {
	Stats(ctx context.Context, query, from, to string) (journaldto.StatsOutput, error)
}

// LoadedMsg answers the Reload numbered Seq.
type LoadedMsg struct {
	Seq   int
	Stats journaldto.StatsOutput
	Err   error
}

const barWidth = 24

// Model is the dashboard: totals over the sessions the timeline filter
// currently matches, headed by the practitioner's profile.
type Model struct {
	port    Port
	profile string
	query   string
	from    string
	to      string
	seq     int
	stats   journaldto.StatsOutput
	err     error
	loaded  bool
	width   int
	height  int
}

func New(port Port, profile string) Model {
	return Model{port: port, profile: profile}
}

func (m Model) Init() tea.Cmd { return m.load() }

// Reload recomputes the dashboard; results of earlier reloads are ignored.
func (m *Model) Reload() tea.Cmd {
	m.seq++
	return m.load()
}

func (m Model) load() tea.Cmd {
	port, query, from, to, seq := m.port, m.query, m.from, m.to, m.seq
	return func() tea.Msg {
		out, err := port.Stats(context.Background(), query, from, to)
		return LoadedMsg{Seq: seq, Stats: out, Err: err}
	}
}

// SetFilter scopes the dashboard to the same query the timeline shows.
func (m *Model) SetFilter(query, from, to string) tea.Cmd {
	m.query, m.from, m.to = query, from, to
	return m.Reload()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case LoadedMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.loaded = true
		m.err = msg.Err
		if msg.Err == nil {
			m.stats = msg.Stats
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Error.Render("Could not compute stats: " + m.err.Error())
	}
	if !m.loaded {
		return theme.Muted.Render("Computing…")
	}
	s := m.stats

	var sb strings.Builder
	if m.profile != "" {
		sb.WriteString(theme.Hot.Render(m.profile) + "\n\n")
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Sessions", humanize.Comma(int64(s.Count))),
		card("Mat time", s.MatTime),
		card("Avg intensity", fmt.Sprintf("%.1f", s.AverageIntensity)),
		card("Positions", humanize.Comma(int64(s.TotalPositions))),
		card("Drills", humanize.Comma(int64(s.TotalDrills))),
	)
	sb.WriteString(cards + "\n\n")

	sb.WriteString(theme.Title.Render("By type") + "\n")
	sb.WriteString(TypeBars(s.PerType, s.Count) + "\n")

	sb.WriteString(theme.Title.Render("Most trained positions") + "\n")
	if len(s.TopPositions) == 0 {
		sb.WriteString(theme.Muted.Render("  none recorded yet") + "\n")
	}
	for i, p := range s.TopPositions {
		sb.WriteString(fmt.Sprintf("  %d. %s %s\n", i+1, p.Position, theme.Muted.Render("×"+humanize.Comma(int64(p.Count)))))
	}
	return sb.String()
}

func card(label, value string) string {
	return theme.Pane.Width(16).Render(theme.Muted.Render(label) + "\n" + theme.Hot.Render(value))
}

// TypeBars draws one proportional bar per session type.
func TypeBars(perType []journaldto.TypeCountOutput, total int) string {
	var sb strings.Builder
	for _, tc := range perType {
		filled := 0
		if total > 0 {
			filled = tc.Count * barWidth / total
		}
		if tc.Count > 0 && filled == 0 {
			filled = 1
		}
		bar := lipgloss.NewStyle().Foreground(theme.TypeColor(tc.Type)).Render(strings.Repeat("█", filled)) +
			theme.Muted.Render(strings.Repeat("░", barWidth-filled))
		sb.WriteString(fmt.Sprintf("  %-16s %s %d\n", tc.Type, bar, tc.Count))
	}
	return sb.String()
}
