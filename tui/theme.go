package tui

import (
	"github.com/charmbracelet/lipgloss"

	"ticklist/model"
)

// Styles bundles the palette for one theme. Every renderer pulls from the
// model's current Styles, so swapping the bundle restyles the whole screen.
type Styles struct {
	theme model.Theme

	Title     lipgloss.Style
	Summary   lipgloss.Style
	Selected  lipgloss.Style
	Done      lipgloss.Style
	CheckDone lipgloss.Style
	CheckOpen lipgloss.Style
	Age       lipgloss.Style
	Empty     lipgloss.Style
	Status    lipgloss.Style
	StatusErr lipgloss.Style
	Hint      lipgloss.Style
	Prompt    lipgloss.Style

	FrameIdle   lipgloss.Color
	FrameActive lipgloss.Color

	HelpTitle    lipgloss.Style
	HelpSection  lipgloss.Style
	HelpBody     lipgloss.Style
	HelpFrame    lipgloss.Color
	WelcomeFrame lipgloss.Color
}

// NewStyles builds the style bundle for a theme. Unknown themes get the
// light palette.
func NewStyles(theme model.Theme) Styles {
	if model.NormalizeTheme(theme) == model.ThemeDark {
		return darkStyles()
	}
	return lightStyles()
}

// Theme reports which theme the bundle was built for.
func (s Styles) Theme() model.Theme {
	return s.theme
}

func darkStyles() Styles {
	return Styles{
		theme: model.ThemeDark,

		Title:     lipgloss.NewStyle().Bold(true),
		Summary:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		Done:      lipgloss.NewStyle().Faint(true),
		CheckDone: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		CheckOpen: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Age:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Empty:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("70")),
		StatusErr: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Hint:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),

		FrameIdle:   lipgloss.Color("240"),
		FrameActive: lipgloss.Color("39"),

		HelpTitle:    lipgloss.NewStyle().Bold(true),
		HelpSection:  lipgloss.NewStyle().Foreground(lipgloss.Color("111")).Bold(true),
		HelpBody:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		HelpFrame:    lipgloss.Color("244"),
		WelcomeFrame: lipgloss.Color("63"),
	}
}

func lightStyles() Styles {
	return Styles{
		theme: model.ThemeLight,

		Title:     lipgloss.NewStyle().Bold(true),
		Summary:   lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("26")),
		Done:      lipgloss.NewStyle().Faint(true),
		CheckDone: lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		CheckOpen: lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		Age:       lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
		Empty:     lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		StatusErr: lipgloss.NewStyle().Foreground(lipgloss.Color("124")),
		Hint:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("130")),

		FrameIdle:   lipgloss.Color("249"),
		FrameActive: lipgloss.Color("26"),

		HelpTitle:    lipgloss.NewStyle().Bold(true),
		HelpSection:  lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
		HelpBody:     lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		HelpFrame:    lipgloss.Color("248"),
		WelcomeFrame: lipgloss.Color("61"),
	}
}
