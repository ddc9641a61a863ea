package playerbar

import (
	"strings"

	"github.com/llehouerou/tartil/internal/segment"
	"github.com/llehouerou/tartil/internal/ui"
)

const (
	filledCell = "━"
	emptyCell  = "─"
	markerCell = "┃"
)

// RenderProgressBar draws position/duration as a bar of width cells.
// When window is set, its start and end are marked on the bar.
func RenderProgressBar(position, duration float64, window *segment.Bounds, width int) string {
	width = max(width, ui.MinProgressBarWidth)

	filled := 0
	if duration > 0 {
		filled = min(int(float64(width)*position/duration), width)
		filled = max(filled, 0)
	}

	markers := map[int]bool{}
	if window != nil && duration > 0 {
		markers[cellAt(window.Start, duration, width)] = true
		markers[cellAt(window.End, duration, width)] = true
	}

	var b strings.Builder
	for i := range width {
		switch {
		case markers[i]:
			b.WriteString(markerStyle().Render(markerCell))
		case i < filled:
			b.WriteString(filledStyle().Render(filledCell))
		default:
			b.WriteString(emptyStyle().Render(emptyCell))
		}
	}
	return b.String()
}

// cellAt maps t to a bar cell, clamped to the bar.
func cellAt(t, duration float64, width int) int {
	c := int(float64(width) * t / duration)
	return max(0, min(c, width-1))
}
