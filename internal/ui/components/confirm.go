package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bjjflow/internal/ui/theme"
)

// ConfirmResultMsg reports the user's answer. Subject is echoed back so the
// caller knows what was confirmed.
type ConfirmResultMsg struct {
	Subject   string
	Confirmed bool
}

var confirmStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Red).
	Background(theme.Mantle).
	Foreground(theme.Text).
	Padding(1, 2)

// Confirm is a yes/no dialog. Only y confirms; any other key declines.
type Confirm struct {
	question string
	subject  string
	visible  bool
}

func (c Confirm) Visible() bool { return c.visible }

func (c *Confirm) Ask(question, subject string) {
	c.question = question
	c.subject = subject
	c.visible = true
}

func (c Confirm) Update(msg tea.Msg) (Confirm, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !c.visible || !ok {
		return c, nil
	}
	confirmed := key.String() == "y" || key.String() == "Y"
	subject := c.subject
	c.visible = false
	return c, func() tea.Msg { return ConfirmResultMsg{Subject: subject, Confirmed: confirmed} }
}

func (c Confirm) View() string {
	if !c.visible {
		return ""
	}
	return confirmStyle.Render(theme.Hot.Render(c.question) + "\n\n" + theme.Muted.Render("y: confirm   any other key: cancel"))
}
