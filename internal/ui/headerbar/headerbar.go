// Package headerbar renders the one-line chapter header.
package headerbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tartil/internal/ui/render"
	"github.com/llehouerou/tartil/internal/ui/styles"
)

// Height is the fixed height of the header bar.
const Height = 1

const appName = "tartil"

// Info is what the header shows about the loaded chapter.
type Info struct {
	Chapter    int
	Name       string // transliterated name, e.g. "Al-Fatihah"
	Translated string // e.g. "The Opener"
	Arabic     string
	Verses     int
	Reciter    string
	Offline    bool // playing from the local audio cache
}

// Render returns the header for the given width. The left side carries
// the chapter, the right side its Arabic name and the reciter.
func Render(info Info, width int) string {
	if width < 20 {
		return ""
	}
	t := styles.T()
	s := t.S()

	title := styles.Gradient(appName, t.Primary, t.Secondary, true)
	sep := s.Subtle.Render(" │ ")

	var left string
	if info.Chapter == 0 {
		left = title + sep + s.Muted.Render("no chapter loaded")
		return render.Row(left, "", width)
	}

	name := fmt.Sprintf("%d. %s", info.Chapter, info.Name)
	if info.Translated != "" {
		name += " (" + info.Translated + ")"
	}
	meta := fmt.Sprintf("%d verses", info.Verses)

	var right []string
	if info.Arabic != "" {
		right = append(right, s.Arabic.Render(info.Arabic))
	}
	if info.Reciter != "" {
		right = append(right, s.Muted.Render(info.Reciter))
	}
	if info.Offline {
		right = append(right, s.Warning.Render("offline"))
	}
	rightStr := strings.Join(right, sep)

	// Shrink the chapter name before dropping anything else.
	fixed := lipgloss.Width(appName) + 2*lipgloss.Width(sep) + lipgloss.Width(meta) + lipgloss.Width(rightStr) + 1
	name = render.Truncate(name, max(width-fixed, 8))

	left = title + sep + s.Title.Render(name) + sep + s.Muted.Render(meta)
	if lipgloss.Width(left)+lipgloss.Width(rightStr)+1 > width {
		return left
	}
	return render.Row(left, rightStr, width)
}
