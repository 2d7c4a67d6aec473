package render

import "github.com/charmbracelet/lipgloss"

// Theme styles the chrome around frame text. Function names, filenames and
// argument symbols carry their own colors from the colorize filter.
type Theme struct {
	Name    string
	Level   lipgloss.Style
	Address lipgloss.Style
	Keyword lipgloss.Style
	Value   lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Icons   ThemeIcons
}

// ThemeIcons defines the markers for a theme.
type ThemeIcons struct {
	Elided string
	Folded string
}

// DefaultTheme returns a vibrant color theme.
func DefaultTheme() Theme {
	return Theme{
		Name:    "default",
		Level:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Address: lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		Keyword: lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		Value:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Elided: "↳",
			Folded: "⋯",
		},
	}
}

// OrcaTheme returns a muted, professional theme.
func OrcaTheme() Theme {
	return Theme{
		Name:    "orca",
		Level:   lipgloss.NewStyle().Foreground(lipgloss.Color("75")), // pale blue
		Address: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Keyword: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Value:   lipgloss.NewStyle().Foreground(lipgloss.Color("179")), // muted gold
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("167")), // muted red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Elided: "·",
			Folded: "…",
		},
	}
}

// MonoTheme returns a monochrome theme (no colors).
func MonoTheme() Theme {
	return Theme{
		Name:    "mono",
		Level:   lipgloss.NewStyle(),
		Address: lipgloss.NewStyle(),
		Keyword: lipgloss.NewStyle(),
		Value:   lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Elided: "-",
			Folded: "...",
		},
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "orca":
		return OrcaTheme()
	case "mono":
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}
