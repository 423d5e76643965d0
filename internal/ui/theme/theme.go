package theme

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")
	Mauve    = lipgloss.Color("#cba6f7")
	Teal     = lipgloss.Color("#94e2d5")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(0, 1)

	PaneActive = Pane.BorderForeground(Lavender)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Error = lipgloss.NewStyle().Foreground(Red)

	Tag = lipgloss.NewStyle().
		Background(Surface0).
		Foreground(Text).
		Padding(0, 1)
)

// Intensity colours a 1..5 rating: green up to 2, yellow up to 4, red above.
func Intensity(level int) lipgloss.Style {
	switch {
	case level <= 2:
		return lipgloss.NewStyle().Foreground(Green)
	case level <= 4:
		return lipgloss.NewStyle().Foreground(Yellow)
	default:
		return lipgloss.NewStyle().Foreground(Red).Bold(true)
	}
}

var typeColors = map[string]lipgloss.Color{
	"Gi":              Sapphire,
	"No-Gi":           Peach,
	"Drill/Technique": Teal,
	"Open Mat":        Mauve,
	"Competition":     Red,
}

// TypeBadge is the pill style for a session type label.
func TypeBadge(sessionType string) lipgloss.Style {
	color, ok := typeColors[sessionType]
	if !ok {
		color = Subtext0
	}
	return lipgloss.NewStyle().Foreground(Base).Background(color).Bold(true).Padding(0, 1)
}

// TypeColor is the accent for a session type, used by dashboard bars.
func TypeColor(sessionType string) lipgloss.Color {
	if color, ok := typeColors[sessionType]; ok {
		return color
	}
	return Subtext0
}
