package render

import "github.com/charmbracelet/lipgloss"

// Theme colours the terminal view.
type Theme struct {
	Name   string
	Field  lipgloss.Color
	Ball   lipgloss.Color
	Border lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
}

var (
	// ThemeClassic is a magenta ball on a yellow field.
	ThemeClassic = Theme{
		Name:   "classic",
		Field:  lipgloss.Color("#ffff00"),
		Ball:   lipgloss.Color("#ff00ff"),
		Border: lipgloss.Color("#444466"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666688"),
	}

	ThemeMono = Theme{
		Name:   "mono",
		Field:  lipgloss.Color("#0a0a0a"),
		Ball:   lipgloss.Color("#ffffff"),
		Border: lipgloss.Color("#3c3c3c"),
		Text:   lipgloss.Color("#b4b4b4"),
		Muted:  lipgloss.Color("#8c8c8c"),
	}
)

var themes = map[string]Theme{
	ThemeClassic.Name: ThemeClassic,
	ThemeMono.Name:    ThemeMono,
}

// ThemeByName returns the named theme, falling back to classic.
func ThemeByName(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return ThemeClassic
}

func (t Theme) fieldStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Ball).Background(t.Field)
}

func (t Theme) panelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text)
}
