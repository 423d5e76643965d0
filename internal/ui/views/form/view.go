package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	journaldto "bjjflow/internal/modules/journal/dto"
	"bjjflow/internal/ui/theme"
)

// SubmitMsg carries the filled-in session. Validation happens in the journal.
type SubmitMsg struct{ Input journaldto.AddSessionInput }

type CancelMsg struct{}

type field int

const (
	fieldTitle field = iota
	fieldDate
	fieldType
	fieldDuration
	fieldIntensity
	fieldPositions
	fieldDrills
	fieldPartners
	fieldCoach
	fieldNotes
	fieldCount
)

var labels = [fieldCount]string{
	fieldTitle:     "Title",
	fieldDate:      "Date",
	fieldType:      "Type",
	fieldDuration:  "Duration (min)",
	fieldIntensity: "Intensity",
	fieldPositions: "Positions",
	fieldDrills:    "Drills",
	fieldPartners:  "Partners",
	fieldCoach:     "Coach",
	fieldNotes:     "Notes",
}

const defaultDuration = 60

// Model is the new-session editor. Type and intensity are selectors moved
// with left/right; list fields take comma separated values.
type Model struct {
	inputs    [fieldCount]textinput.Model
	notes     textarea.Model
	types     []string
	typeIdx   int
	intensity int
	focus     field
	err       string
	width     int
}

func New(today string) Model {
	m := Model{
		types:     journaldto.SessionTypeLabels(),
		intensity: 3,
	}
	for f := field(0); f < fieldCount; f++ {
		if isText(f) {
			m.inputs[f] = textinput.New()
			m.inputs[f].CharLimit = 256
		}
	}
	m.inputs[fieldTitle].Placeholder = "optional"
	m.inputs[fieldDate].Placeholder = "YYYY-MM-DD"
	m.inputs[fieldDate].SetValue(today)
	m.inputs[fieldDate].CharLimit = 10
	m.inputs[fieldDuration].SetValue(strconv.Itoa(defaultDuration))
	m.inputs[fieldDuration].CharLimit = 4
	m.inputs[fieldPositions].Placeholder = "closed guard, mount"
	m.inputs[fieldDrills].Placeholder = "armbar from guard"
	m.inputs[fieldPartners].Placeholder = "comma separated"

	m.notes = textarea.New()
	m.notes.Placeholder = "What did you learn today?"
	m.notes.SetHeight(5)
	m.notes.ShowLineNumbers = false

	m.inputs[fieldTitle].Focus()
	return m
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m *Model) SetWidth(w int) {
	m.width = w
	inner := w - 22
	if inner < 20 {
		inner = 20
	}
	for f := range m.inputs {
		m.inputs[f].Width = inner
	}
	m.notes.SetWidth(inner)
}

// Input assembles the current form values.
func (m Model) Input() journaldto.AddSessionInput {
	duration, _ := strconv.Atoi(strings.TrimSpace(m.inputs[fieldDuration].Value()))
	return journaldto.AddSessionInput{
		Title:     strings.TrimSpace(m.inputs[fieldTitle].Value()),
		Date:      strings.TrimSpace(m.inputs[fieldDate].Value()),
		Type:      m.types[m.typeIdx],
		Duration:  duration,
		Intensity: m.intensity,
		Positions: splitList(m.inputs[fieldPositions].Value()),
		Drills:    splitList(m.inputs[fieldDrills].Value()),
		Partners:  splitList(m.inputs[fieldPartners].Value()),
		Coach:     strings.TrimSpace(m.inputs[fieldCoach].Value()),
		Notes:     m.notes.Value(),
	}
}

// SetError shows a rejection from the journal under the form.
func (m *Model) SetError(err error) {
	if err == nil {
		m.err = ""
		return
	}
	m.err = err.Error()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateFocused(msg)
	}

	switch key.String() {
	case "esc":
		return m, func() tea.Msg { return CancelMsg{} }
	case "ctrl+s":
		if raw := strings.TrimSpace(m.inputs[fieldDuration].Value()); raw != "" {
			if _, err := strconv.Atoi(raw); err != nil {
				m.err = "duration must be a whole number of minutes"
				return m, nil
			}
		}
		in := m.Input()
		return m, func() tea.Msg { return SubmitMsg{Input: in} }
	case "tab", "down":
		if m.focus == fieldNotes && key.String() == "down" {
			return m.updateFocused(msg)
		}
		return m, m.move(1)
	case "shift+tab", "up":
		if m.focus == fieldNotes && key.String() == "up" {
			return m.updateFocused(msg)
		}
		return m, m.move(-1)
	case "left", "right":
		delta := 1
		if key.String() == "left" {
			delta = -1
		}
		switch m.focus {
		case fieldType:
			m.typeIdx = (m.typeIdx + delta + len(m.types)) % len(m.types)
			return m, nil
		case fieldIntensity:
			m.intensity += delta
			if m.intensity < journaldto.MinIntensity {
				m.intensity = journaldto.MinIntensity
			}
			if m.intensity > journaldto.MaxIntensity {
				m.intensity = journaldto.MaxIntensity
			}
			return m, nil
		}
	}
	return m.updateFocused(msg)
}

func (m *Model) move(delta int) tea.Cmd {
	if isText(m.focus) {
		m.inputs[m.focus].Blur()
	}
	if m.focus == fieldNotes {
		m.notes.Blur()
	}
	m.focus = field((int(m.focus) + delta + int(fieldCount)) % int(fieldCount))
	if isText(m.focus) {
		return m.inputs[m.focus].Focus()
	}
	if m.focus == fieldNotes {
		return m.notes.Focus()
	}
	return nil
}

func (m Model) updateFocused(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if isText(m.focus) {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	if m.focus == fieldNotes {
		m.notes, cmd = m.notes.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("New training session") + "\n\n")
	for f := field(0); f < fieldCount; f++ {
		label := fmt.Sprintf("%-15s", labels[f])
		if f == m.focus {
			label = theme.Hot.Render(label)
		} else {
			label = theme.Muted.Render(label)
		}
		sb.WriteString(label + " " + m.fieldView(f) + "\n")
	}
	if m.err != "" {
		sb.WriteString("\n" + theme.Error.Render(m.err) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("tab/shift+tab: move · ←/→: choose · ctrl+s: save · esc: cancel"))

	style := theme.PaneActive
	if m.width > 0 {
		style = style.Width(m.width - 2)
	}
	return style.Render(sb.String())
}

func (m Model) fieldView(f field) string {
	switch f {
	case fieldType:
		parts := make([]string, len(m.types))
		for i, t := range m.types {
			if i == m.typeIdx {
				parts[i] = theme.TypeBadge(t).Render(t)
			} else {
				parts[i] = theme.Muted.Render(t)
			}
		}
		return strings.Join(parts, " ")
	case fieldIntensity:
		dots := strings.Repeat("●", m.intensity) + strings.Repeat("○", journaldto.MaxIntensity-m.intensity)
		return theme.Intensity(m.intensity).Render(fmt.Sprintf("%s %d", dots, m.intensity))
	case fieldNotes:
		return "\n" + lipgloss.NewStyle().PaddingLeft(2).Render(m.notes.View())
	default:
		return m.inputs[f].View()
	}
}

func isText(f field) bool {
	return f != fieldType && f != fieldIntensity && f != fieldNotes
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
