// Package verses renders the chapter text panel: Arabic, transliteration
// and translation per verse, following the recited verse.
package verses

import (
	"fmt"
	"slices"
	"strings"

	"github.com/llehouerou/tartil/internal/keymap"
	"github.com/llehouerou/tartil/internal/ui"
	"github.com/llehouerou/tartil/internal/ui/render"
	"github.com/llehouerou/tartil/internal/ui/styles"
)

const (
	cursorMark = "▸"
	rangeMark  = "┃"

	// border plus one column of padding on each side
	horizontalOverhead = 4
)

// Line is one verse as displayed.
type Line struct {
	Number          int
	Arabic          string
	Transliteration string
	Translation     string
}

// Model is the verse panel. Lines are ordered by verse number.
type Model struct {
	ui.Base
	chapter int
	lines   []Line

	active int // verse being recited, 0 for none
	cursor int // index into lines
	offset int // first visible line index
	follow bool

	rangeOn  bool
	from, to int

	showTranslit    bool
	showTranslation bool
}

// New returns an empty panel that follows the recited verse.
func New() *Model {
	return &Model{follow: true, showTranslit: true, showTranslation: true}
}

// SetVerses replaces the panel content and resets scrolling.
func (m *Model) SetVerses(chapter int, lines []Line) {
	m.chapter = chapter
	m.lines = lines
	m.active = 0
	m.cursor = 0
	m.offset = 0
	m.follow = true
}

// SetActive marks verse as being recited. When following, the cursor
// moves to it and the panel re-centers.
func (m *Model) SetActive(verse int) {
	if verse == m.active {
		return
	}
	m.active = verse
	if !m.follow {
		return
	}
	if i := m.indexOf(verse); i >= 0 {
		m.cursor = i
		m.centerOn(i)
	}
}

// SetRange sets the repeated verse range shown in the gutter.
func (m *Model) SetRange(from, to int, enabled bool) {
	m.rangeOn = enabled
	m.from, m.to = from, to
}

// ShowTransliteration toggles the transliteration row.
func (m *Model) ShowTransliteration(show bool) {
	m.showTranslit = show
}

// ShowTranslation toggles the translation rows.
func (m *Model) ShowTranslation(show bool) {
	m.showTranslation = show
}

// Cursor returns the verse number under the cursor, or 0.
func (m *Model) Cursor() int {
	if m.cursor < 0 || m.cursor >= len(m.lines) {
		return 0
	}
	return m.lines[m.cursor].Number
}

// SetCursor moves the cursor to verse and stops following.
func (m *Model) SetCursor(verse int) {
	if i := m.indexOf(verse); i >= 0 {
		m.follow = false
		m.cursor = i
		m.centerOn(i)
	}
}

// Following reports whether the panel tracks the recited verse.
func (m *Model) Following() bool {
	return m.follow
}

// HandleAction applies a navigation action and reports whether it was
// consumed. Manual movement stops following until ActionFollowVerse.
func (m *Model) HandleAction(a keymap.Action) bool {
	if len(m.lines) == 0 {
		return false
	}
	switch a {
	case keymap.ActionMoveDown:
		m.moveTo(m.cursor + 1)
	case keymap.ActionMoveUp:
		m.moveTo(m.cursor - 1)
	case keymap.ActionJumpStart:
		m.moveTo(0)
	case keymap.ActionJumpEnd:
		m.moveTo(len(m.lines) - 1)
	case keymap.ActionFollowVerse:
		m.follow = true
		if i := m.indexOf(m.active); i >= 0 {
			m.cursor = i
		}
		m.centerOn(m.cursor)
	default:
		return false
	}
	return true
}

func (m *Model) moveTo(i int) {
	m.follow = false
	m.cursor = max(0, min(i, len(m.lines)-1))
	m.ensureVisible()
}

func (m *Model) indexOf(verse int) int {
	if verse == 0 {
		return -1
	}
	return slices.IndexFunc(m.lines, func(l Line) bool { return l.Number == verse })
}

func (m *Model) innerHeight() int {
	return m.InnerHeight(ui.BorderHeight)
}

func (m *Model) innerWidth() int {
	return max(m.Width()-horizontalOverhead, 1)
}

// centerOn scrolls so line i sits near the middle of the panel.
func (m *Model) centerOn(i int) {
	half := m.innerHeight() / 2
	used := m.blockHeight(i) / 2
	off := i
	for off > 0 && used+m.blockHeight(off-1) <= half {
		off--
		used += m.blockHeight(off)
	}
	m.offset = off
}

// ensureVisible scrolls the minimum needed to show the cursor's block,
// keeping a few verses of context above it when scrolling up.
func (m *Model) ensureVisible() {
	if m.cursor < m.offset {
		m.offset = max(m.cursor-ui.VerseMargin, 0)
		return
	}
	h := m.innerHeight()
	for m.offset < m.cursor {
		used := 0
		for i := m.offset; i <= m.cursor; i++ {
			used += m.blockHeight(i)
		}
		if used <= h {
			return
		}
		m.offset++
	}
}

func (m *Model) blockHeight(i int) int {
	return len(m.block(i, m.innerWidth()))
}

// block renders line i as its header, text rows and a blank spacer.
func (m *Model) block(i, width int) []string {
	t := styles.T().S()
	l := m.lines[i]

	isActive := l.Number == m.active
	inRange := m.rangeOn && l.Number >= m.from && l.Number <= m.to

	mark := " "
	if i == m.cursor {
		mark = t.Cursor.Render(cursorMark)
	}
	gutter := " "
	if inRange {
		gutter = t.InRange.Render(rangeMark)
	}
	label := fmt.Sprintf("%d:%d", m.chapter, l.Number)
	switch {
	case isActive:
		label = t.Active.Render(label)
	case inRange:
		label = t.InRange.Render(label)
	default:
		label = t.Muted.Render(label)
	}
	header := mark + gutter + " " + label

	arabic := t.Arabic
	if isActive {
		arabic = t.Active
	}
	out := []string{header}
	for _, row := range render.Wrap(l.Arabic, width) {
		out = append(out, arabic.Render(render.AlignRight(row, width)))
	}
	if m.showTranslit && l.Transliteration != "" {
		for _, row := range render.Wrap(l.Transliteration, width) {
			out = append(out, t.Muted.Italic(true).Render(row))
		}
	}
	if m.showTranslation && l.Translation != "" {
		for _, row := range render.Wrap(l.Translation, width) {
			out = append(out, t.Subtle.Render(row))
		}
	}
	return append(out, "")
}

// View renders the visible verses inside the panel border.
func (m *Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}
	width := m.innerWidth()
	height := m.innerHeight()

	var rows []string
	if len(m.lines) == 0 {
		rows = append(rows, styles.T().S().Subtle.Render("No verses loaded"))
	}
	for i := m.offset; i < len(m.lines) && len(rows) < height; i++ {
		rows = append(rows, m.block(i, width)...)
	}
	if len(rows) > height {
		rows = rows[:height]
	}
	for len(rows) < height {
		rows = append(rows, "")
	}

	return styles.PanelStyle(m.IsFocused()).
		Padding(0, 1).
		Width(max(m.Width()-ui.BorderHeight, 0)).
		Render(strings.Join(rows, "\n"))
}
