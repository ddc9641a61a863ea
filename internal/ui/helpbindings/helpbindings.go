// Package helpbindings is the scrollable key bindings popup.
package helpbindings

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/llehouerou/tartil/internal/keymap"
	"github.com/llehouerou/tartil/internal/ui"
	"github.com/llehouerou/tartil/internal/ui/popup"
	"github.com/llehouerou/tartil/internal/ui/render"
	"github.com/llehouerou/tartil/internal/ui/styles"
)

var _ popup.Popup = (*Model)(nil)

// categoryOrder is the display order of binding contexts.
var categoryOrder = []string{"global", "playback", "verses", "repeat"}

var categoryLabels = map[string]string{
	"global":   "Global",
	"playback": "Playback",
	"verses":   "Verses",
	"repeat":   "Repeat",
}

// chrome is the rows taken by the title, footer and popup border.
const chrome = 8

// Model is the help popup.
type Model struct {
	ui.Base
	lines        []string
	scrollOffset int
}

// New returns a popup listing every binding.
func New() *Model {
	m := &Model{}
	m.lines = buildContent(keymap.Bindings)
	return m
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "?", "esc", "q":
		return m, func() tea.Msg { return ActionMsg(Close{}) }
	case "j", "down":
		m.scrollOffset = min(m.scrollOffset+1, m.maxScroll())
	case "k", "up":
		m.scrollOffset = max(m.scrollOffset-1, 0)
	}
	return m, nil
}

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}
	s := styles.T().S()

	width := 0
	for _, l := range m.lines {
		width = max(width, lipgloss.Width(l))
	}
	end := min(m.scrollOffset+m.visibleHeight(), len(m.lines))
	visible := make([]string, 0, end-m.scrollOffset)
	for _, l := range m.lines[m.scrollOffset:end] {
		// Pad so the popup keeps its width while scrolling.
		visible = append(visible, l+strings.Repeat(" ", width-lipgloss.Width(l)))
	}

	footer := "?/esc close"
	if m.maxScroll() > 0 {
		footer = "j/k scroll · " + footer
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(visible, "\n"))
	b.WriteString("\n\n")
	b.WriteString(s.Subtle.Render(footer))
	return b.String()
}

func (m *Model) visibleHeight() int {
	return m.InnerHeight(chrome)
}

func (m *Model) maxScroll() int {
	return max(len(m.lines)-m.visibleHeight(), 0)
}

// buildContent lays the bindings out by context, keys aligned in a column.
func buildContent(bindings []keymap.Binding) []string {
	t := styles.T()
	s := t.S()
	header := lipgloss.NewStyle().Foreground(t.Secondary).Bold(true)

	keysOf := func(b keymap.Binding) string {
		return strings.Join(lo.Map(b.Keys, func(k string, _ int) string {
			return keymap.DisplayKey(k)
		}), ", ")
	}
	keyWidth := lo.Max(lo.Map(bindings, func(b keymap.Binding, _ int) int {
		return lipgloss.Width(keysOf(b))
	}))

	byContext := lo.GroupBy(bindings, func(b keymap.Binding) string { return b.Context })

	var lines []string
	for _, ctx := range categoryOrder {
		group := byContext[ctx]
		if len(group) == 0 {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines,
			header.Render(categoryLabels[ctx]),
			s.Subtle.Render(render.Separator(keyWidth+24)),
		)
		for _, b := range group {
			lines = append(lines, s.Key.Render(render.Pad(keysOf(b), keyWidth))+"  "+s.Base.Render(b.Description))
		}
	}
	return lines
}
