package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Gradient colors text from one color to another across its grapheme
// clusters, so Arabic letters keep their diacritics.
func Gradient(text string, from, to lipgloss.Color, bold bool) string {
	var clusters []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}
	if len(clusters) == 0 {
		return ""
	}

	colors := Blend(len(clusters), from, to)
	var b strings.Builder
	for i, c := range clusters {
		style := lipgloss.NewStyle().Foreground(colors[i])
		if bold {
			style = style.Bold(true)
		}
		b.WriteString(style.Render(c))
	}
	return b.String()
}

// Blend returns n colors evenly spaced between from and to in HCL space.
// Colors that are not #rrggbb blend as mid gray.
func Blend(n int, from, to lipgloss.Color) []lipgloss.Color {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []lipgloss.Color{from}
	}
	c1, c2 := toColorful(from), toColorful(to)
	out := make([]lipgloss.Color, n)
	for i := range n {
		t := float64(i) / float64(n-1)
		out[i] = lipgloss.Color(c1.BlendHcl(c2, t).Clamped().Hex())
	}
	return out
}

func toColorful(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
}
