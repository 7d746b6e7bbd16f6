package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the plot and the TUI chrome.
type Theme struct {
	Name   string
	Curve  lipgloss.Color
	Region lipgloss.Color
	Bounds lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Error  lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Curve:  lipgloss.Color("#00ffff"),
		Region: lipgloss.Color("#ff00ff"),
		Bounds: lipgloss.Color("#ffff00"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
		Error:  lipgloss.Color("#ff0000"),
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Curve:  lipgloss.Color("#00ff00"),
		Region: lipgloss.Color("#00cc00"),
		Bounds: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Error:  lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Curve:  lipgloss.Color("#ffffff"),
		Region: lipgloss.Color("#cccccc"),
		Bounds: lipgloss.Color("#0088ff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Error:  lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Curve:  lipgloss.Color("#00a8cc"),
		Region: lipgloss.Color("#0077be"),
		Bounds: lipgloss.Color("#ffd700"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		Error:  lipgloss.Color("#ff4444"),
	}

	CurrentTheme = ThemeCyberpunk

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetro,
		ThemeMinimal,
		ThemeOcean,
	}
)

// GetTheme returns the named theme, or cyberpunk when the name is unknown.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func (t Theme) plot() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Curve)
}

func (t Theme) accent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Bounds).Bold(true)
}
