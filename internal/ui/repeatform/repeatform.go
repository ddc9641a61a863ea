// Package repeatform is the popup for editing the repeat range.
package repeatform

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tartil/internal/playback"
	"github.com/llehouerou/tartil/internal/timefmt"
	"github.com/llehouerou/tartil/internal/ui"
	"github.com/llehouerou/tartil/internal/ui/popup"
	"github.com/llehouerou/tartil/internal/ui/styles"
)

var _ popup.Popup = (*Model)(nil)

// MaxRepeatCount bounds the number of plays of a range.
const MaxRepeatCount = 999

// field is a focusable row of the form, in display order.
type field int

const (
	fieldFrom field = iota
	fieldTo
	fieldCount
	fieldTimeRange
	fieldStart
	fieldEnd
	fieldTotal
)

var labels = [fieldTotal]string{
	fieldFrom:      "From verse",
	fieldTo:        "To verse",
	fieldCount:     "Repeat",
	fieldTimeRange: "Time range",
	fieldStart:     "Start",
	fieldEnd:       "End",
}

const labelWidth = 12

// Model edits a playback.Config. Time bounds are typed as [hh:]mm:ss.
type Model struct {
	ui.Base
	inputs   [fieldTotal]textinput.Model // fieldTimeRange slot unused
	useTime  bool
	focus    field
	maxVerse int
	err      string
}

// New returns an empty form.
func New() *Model {
	m := &Model{}
	for f := range fieldTotal {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 12
		ti.Width = 12
		m.inputs[f] = ti
	}
	m.inputs[fieldStart].Placeholder = "m:ss"
	m.inputs[fieldEnd].Placeholder = "m:ss"
	return m
}

// Start fills the form from cfg. maxVerse bounds the verse fields when
// positive.
func (m *Model) Start(cfg playback.Config, maxVerse int) tea.Cmd {
	m.maxVerse = maxVerse
	m.useTime = cfg.UseTimeRange
	m.err = ""
	m.inputs[fieldFrom].SetValue(strconv.Itoa(cfg.RepeatFrom))
	m.inputs[fieldTo].SetValue(strconv.Itoa(cfg.RepeatTo))
	m.inputs[fieldCount].SetValue(strconv.Itoa(max(cfg.RepeatCount, 1)))
	m.inputs[fieldStart].SetValue(formatBound(cfg.RangeStart))
	m.inputs[fieldEnd].SetValue(formatBound(cfg.RangeEnd))
	return m.setFocus(fieldFrom)
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.updateInput(msg)
	}

	switch key.String() {
	case "esc":
		return m, func() tea.Msg { return ActionMsg(Result{Canceled: true}) }
	case "enter":
		cfg, err := m.config()
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.err = ""
		return m, func() tea.Msg { return ActionMsg(Result{Config: cfg}) }
	case "tab", "down":
		return m, m.setFocus((m.focus + 1) % fieldTotal)
	case "shift+tab", "up":
		return m, m.setFocus((m.focus + fieldTotal - 1) % fieldTotal)
	case " ", "x":
		if m.focus == fieldTimeRange {
			m.useTime = !m.useTime
			return m, nil
		}
	}

	if m.focus == fieldTimeRange {
		return m, nil
	}
	if key.Type == tea.KeyRunes && !acceptsRunes(key.Runes) {
		return m, nil
	}
	return m, m.updateInput(msg)
}

func (m *Model) updateInput(msg tea.Msg) tea.Cmd {
	if m.focus == fieldTimeRange {
		return nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.focus = f
	var cmd tea.Cmd
	for i := range m.inputs {
		if field(i) == f {
			cmd = m.inputs[i].Focus()
			m.inputs[i].CursorEnd()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

// acceptsRunes allows digits and the separators of a clock time.
func acceptsRunes(rs []rune) bool {
	for _, r := range rs {
		if (r < '0' || r > '9') && r != ':' && r != '.' {
			return false
		}
	}
	return true
}

// config validates the fields and builds the resulting playback.Config.
func (m *Model) config() (playback.Config, error) {
	from, err := m.intField(fieldFrom)
	if err != nil {
		return playback.Config{}, err
	}
	to, err := m.intField(fieldTo)
	if err != nil {
		return playback.Config{}, err
	}
	count, err := m.intField(fieldCount)
	if err != nil {
		return playback.Config{}, err
	}

	switch {
	case from < 1 || to < 1:
		return playback.Config{}, errors.New("verses start at 1")
	case m.maxVerse > 0 && (from > m.maxVerse || to > m.maxVerse):
		return playback.Config{}, fmt.Errorf("chapter has %d verses", m.maxVerse)
	case from > to:
		return playback.Config{}, errors.New("from must not be after to")
	case count < 1 || count > MaxRepeatCount:
		return playback.Config{}, fmt.Errorf("repeat must be between 1 and %d", MaxRepeatCount)
	}

	cfg := playback.Config{
		RepeatFrom:   from,
		RepeatTo:     to,
		RepeatCount:  count,
		UseTimeRange: m.useTime,
	}

	start, startOK := timefmt.ParseSeconds(strings.TrimSpace(m.inputs[fieldStart].Value()))
	end, endOK := timefmt.ParseSeconds(strings.TrimSpace(m.inputs[fieldEnd].Value()))
	if m.useTime {
		switch {
		case !startOK:
			return playback.Config{}, errors.New("invalid start time")
		case !endOK:
			return playback.Config{}, errors.New("invalid end time")
		case end <= start:
			return playback.Config{}, errors.New("end must be after start")
		}
	}
	// Valid bounds are kept while time range is off so toggling it back
	// restores them.
	if startOK {
		cfg.RangeStart = &start
	}
	if endOK {
		cfg.RangeEnd = &end
	}
	return cfg, nil
}

func (m *Model) intField(f field) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(m.inputs[f].Value()))
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", strings.ToLower(labels[f]))
	}
	return v, nil
}

// formatBound renders seconds as m:ss, keeping any fraction.
func formatBound(s *float64) string {
	if s == nil {
		return ""
	}
	out := timefmt.FormatSeconds(*s)
	if _, frac := math.Modf(*s); frac > 0 {
		f := strconv.FormatFloat(frac, 'f', 3, 64)
		out += strings.TrimRight(strings.TrimPrefix(f, "0"), "0")
	}
	return out
}

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}
	t := styles.T()
	s := t.S()
	label := lipgloss.NewStyle().Width(labelWidth)

	var b strings.Builder
	b.WriteString(s.Title.Foreground(t.Primary).Render("Repeat range"))
	b.WriteString("\n\n")

	for f := range fieldTotal {
		mark := "  "
		if f == m.focus {
			mark = s.Key.Render("› ")
		}
		var value string
		if f == fieldTimeRange {
			value = "[ ]"
			if m.useTime {
				value = "[x]"
			}
		} else {
			value = m.inputs[f].View()
		}
		row := mark + label.Render(labels[f]) + value
		if !m.useTime && (f == fieldStart || f == fieldEnd) {
			row = s.Subtle.Render(mark + label.Render(labels[f]) + m.inputs[f].Value())
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(s.Error.Render(m.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(s.Subtle.Render("tab: next · space: toggle · enter: apply · esc: cancel"))
	return b.String()
}
