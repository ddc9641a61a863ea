package search

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tartil/internal/ui/popup"
	"github.com/llehouerou/tartil/internal/ui/render"
	"github.com/llehouerou/tartil/internal/ui/styles"
)

const (
	maxVisibleRows = 20
	// chrome is the border, the query line, the separator and the footer.
	chrome  = 5
	keyCol  = 8 // "114:129 "
	hintTxt = "↑↓ move · enter go · esc close"
)

func (m Model) boxWidth() int {
	w := m.width * 60 / 100
	if w < 40 {
		w = min(40, m.width-4)
	}
	return w
}

func (m Model) innerWidth() int {
	return max(m.boxWidth()-2, 0)
}

func (m Model) boxHeight() int {
	h := m.height * 50 / 100
	if h < 10 {
		h = min(10, m.height-2)
	}
	return h
}

func (m Model) visibleRows() int {
	return min(max(m.boxHeight()-chrome, 1), maxVisibleRows)
}

func (m Model) emptyMessage() string {
	if m.index == nil || m.index.Len() == 0 {
		return "No verses loaded"
	}
	return "No matches"
}

func (m Model) renderHit(h VerseHit, width int, selected bool) string {
	t := styles.T()
	mark := "  "
	if selected {
		mark = "▸ "
	}
	key := render.Pad(h.Key(), keyCol)
	label := render.Truncate(h.Label(), max(width-len(mark)-keyCol, 0))
	if selected {
		return t.S().Cursor.Render(mark+key) + t.S().Active.Render(label)
	}
	return mark + t.S().Subtle.Render(key) + t.S().Base.Render(label)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	t := styles.T()
	inner := m.innerWidth()
	visible := m.visibleRows()

	rows := make([]string, 0, visible)
	if len(m.hits) == 0 {
		rows = append(rows, t.S().Subtle.Render(m.emptyMessage()))
	}
	end := min(m.offset+visible, len(m.hits))
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.renderHit(m.hits[i], inner, i == m.cursor))
	}
	for len(rows) < visible {
		rows = append(rows, "")
	}

	count := fmt.Sprintf("%d verses", len(m.hits))
	footer := render.Row(t.S().Muted.Render(hintTxt), t.S().Subtle.Render(count), inner)

	content := strings.Join([]string{
		m.input.View(),
		render.Separator(inner),
		strings.Join(rows, "\n"),
		footer,
	}, "\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Width(inner).
		Render(content)
	return popup.Center(box, m.width, m.height)
}
