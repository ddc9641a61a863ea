// Package popup frames modal components and overlays them on the player.
package popup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/tartil/internal/ui/styles"
)

// SizeConfig defines how a popup is sized relative to the screen.
type SizeConfig struct {
	WidthPct  int // 0 fits the content
	HeightPct int // 0 fits the content
	MaxWidth  int // 0 means no limit
}

var (
	SizeLarge = SizeConfig{WidthPct: 80, HeightPct: 70} // search
	SizeAuto  = SizeConfig{MaxWidth: 72}                // forms, help
)

// Frame returns the inner content size a popup gets on a screen.
func Frame(screenW, screenH int, size SizeConfig) (width, height int) {
	if size.WidthPct > 0 {
		return screenW*size.WidthPct/100 - 6, screenH*size.HeightPct/100 - 4
	}
	w := screenW - 10
	if size.MaxWidth > 0 {
		w = min(w, size.MaxWidth-6)
	}
	return max(w, 10), max(screenH-8, 5)
}

// RenderBordered wraps content in a rounded border and centers it.
func RenderBordered(content string, screenW, screenH int, size SizeConfig) string {
	width, height := dimensions(content, screenW, screenH, size)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.T().BorderFocus).
		Width(width-2).
		Height(height-2).
		Padding(1, 2).
		Render(content)
	return Center(box, screenW, screenH)
}

func dimensions(content string, screenW, screenH int, size SizeConfig) (width, height int) {
	if size.WidthPct > 0 {
		return screenW * size.WidthPct / 100, screenH * size.HeightPct / 100
	}

	width = maxLineWidth(content) + 6
	if size.MaxWidth > 0 {
		width = min(width, size.MaxWidth)
	}
	width = min(width, screenW-4)

	height = strings.Count(content, "\n") + 1 + 4
	height = min(height, screenH-4)
	return width, height
}

func maxLineWidth(s string) int {
	w := 0
	for line := range strings.SplitSeq(s, "\n") {
		w = max(w, lipgloss.Width(line))
	}
	return w
}

// Center places pre-rendered content in the middle of the screen.
func Center(content string, screenW, screenH int) string {
	lines := strings.Split(content, "\n")
	boxW := 0
	for _, line := range lines {
		boxW = max(boxW, lipgloss.Width(line))
	}
	padTop := max((screenH-len(lines))/2, 0)
	padLeft := max((screenW-boxW)/2, 0)

	var b strings.Builder
	for range padTop {
		b.WriteString(strings.Repeat(" ", screenW))
		b.WriteByte('\n')
	}
	for _, line := range lines {
		b.WriteString(strings.Repeat(" ", padLeft))
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// Compose draws the visible part of overlay on top of base. Overlay lines
// that are blank leave the base untouched. Styled text is cut on display
// columns so escape sequences survive.
func Compose(base, overlay string, width int) string {
	baseLines := strings.Split(base, "\n")

	for i, line := range strings.Split(overlay, "\n") {
		if i >= len(baseLines) {
			break
		}
		plain := ansi.Strip(line)
		if strings.TrimSpace(plain) == "" {
			continue
		}

		start := len(plain) - len(strings.TrimLeft(plain, " "))
		end := ansi.StringWidth(strings.TrimRight(plain, " "))
		content := ansi.Cut(line, start, end)

		under := baseLines[i]
		if w := ansi.StringWidth(under); w < width {
			under += strings.Repeat(" ", width-w)
		}

		prefix := ansi.Cut(under, 0, start)
		if w := ansi.StringWidth(prefix); w < start {
			// a wide rune straddled the edge
			prefix += strings.Repeat(" ", start-w)
		}
		out := prefix + content

		if end < width {
			suffix := ansi.Cut(under, end, width)
			want := width - end
			switch w := ansi.StringWidth(suffix); {
			case w > want:
				suffix = " " + ansi.Cut(suffix, w-want+1, w)
			case w < want:
				suffix += strings.Repeat(" ", want-w)
			}
			out += suffix
		}
		baseLines[i] = out
	}
	return strings.Join(baseLines, "\n")
}
