// Package render provides width-aware text helpers for the terminal views.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Sanitize drops control characters and invalid UTF-8 and turns
// non-breaking spaces into plain ones. Upstream verse text and
// translations occasionally carry both.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == utf8.RuneError && size <= 1:
		case r != '\t' && unicode.IsControl(r):
		case r == '\u00a0':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Truncate shortens s to maxWidth display columns, ending in "...".
func Truncate(s string, maxWidth int) string {
	return runewidth.Truncate(Sanitize(s), maxWidth, "...")
}

// Pad fills s with spaces up to width display columns.
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// TruncateAndPad returns s at exactly width display columns.
func TruncateAndPad(s string, width int) string {
	return Pad(Truncate(s, width), width)
}

// AlignRight right-aligns s within width. Arabic lines are drawn this way
// so they start at the right edge of the panel.
func AlignRight(s string, width int) string {
	s = Truncate(s, width)
	return runewidth.FillLeft(s, width)
}

// Wrap breaks s into lines of at most width display columns on spaces.
// A single word longer than width is truncated.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	curW := 0
	for _, word := range strings.Fields(Sanitize(s)) {
		w := runewidth.StringWidth(word)
		if w > width {
			word, w = runewidth.Truncate(word, width, "…"), width
		}
		switch {
		case curW == 0:
		case curW+1+w <= width:
			cur.WriteByte(' ')
			curW++
		default:
			lines = append(lines, cur.String())
			cur.Reset()
			curW = 0
		}
		cur.WriteString(word)
		curW += w
	}
	if curW > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// Row places left and right at the edges of a line width columns wide.
func Row(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Separator returns a horizontal rule width columns wide.
func Separator(width int) string {
	return strings.Repeat("─", max(width, 0))
}
