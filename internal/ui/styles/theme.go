// Package styles holds the color palette and shared lipgloss styles.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette with its derived styles.
type Theme struct {
	Primary   lipgloss.Color // active verse, focused borders
	Secondary lipgloss.Color // repeat range, loop counter

	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	BgCursor lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color

	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color

	styles *Styles
}

// Styles are the pre-built styles of a theme.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Arabic  lipgloss.Style // verse text
	Active  lipgloss.Style // verse being recited
	InRange lipgloss.Style // verse inside the repeat range
	Cursor  lipgloss.Style
	Key     lipgloss.Style // key names in help and hints
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#4fd1c5"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#d0d0d0"),
	FgMuted:  lipgloss.Color("#8a8a8a"),
	FgSubtle: lipgloss.Color("#5c5c5c"),

	BgCursor: lipgloss.Color("#2c2c2c"),

	Border:      lipgloss.Color("#5c5c5c"),
	BorderFocus: lipgloss.Color("#4fd1c5"),

	Success: lipgloss.Color("#42b883"),
	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the styles of the theme, building them on first use.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.build()
	}
	return t.styles
}

func (t *Theme) build() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	return &Styles{
		Base:    base,
		Muted:   lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:  lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:   base.Bold(true),
		Arabic:  base,
		Active:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		InRange: lipgloss.NewStyle().Foreground(t.Secondary),
		Cursor:  lipgloss.NewStyle().Background(t.BgCursor),
		Key:     lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Success: lipgloss.NewStyle().Foreground(t.Success),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
	}
}
