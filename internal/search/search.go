package search

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the verse finder popup: a query line over the verses of the
// loaded chapter, best matches first. An empty query lists every verse.
type Model struct {
	index  *VerseIndex
	input  textinput.Model
	hits   []VerseHit
	cursor int
	offset int
	width  int
	height int
}

// New creates a closed finder.
func New() Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "arabic, transliteration or translation"
	return Model{input: ti}
}

// Open points the finder at index with an empty query and focuses it.
func (m *Model) Open(index *VerseIndex) tea.Cmd {
	m.index = index
	m.input.SetValue("")
	m.refresh()
	return m.input.Focus()
}

// Close drops the index and blurs the query line.
func (m *Model) Close() {
	m.index = nil
	m.hits = nil
	m.input.SetValue("")
	m.input.Blur()
}

// Query returns the current query.
func (m Model) Query() string {
	return m.input.Value()
}

// Hits returns the verses currently listed.
func (m Model) Hits() []VerseHit {
	return m.hits
}

func (m *Model) refresh() {
	switch {
	case m.index == nil:
		m.hits = nil
	case normalize(m.input.Value()) == "":
		m.hits = m.index.all()
	default:
		m.hits = m.index.Search(m.input.Value(), 0)
	}
	m.cursor = 0
	m.offset = 0
}

func (m *Model) move(delta int) {
	if len(m.hits) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.hits)-1)

	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(m.innerWidth()-len(m.input.Prompt)-1, 1)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg {
				return ActionMsg(Selected{Canceled: true})
			}
		case "enter":
			var v VerseItem
			if m.cursor < len(m.hits) {
				v = m.hits[m.cursor].VerseItem
			}
			return m, func() tea.Msg {
				return ActionMsg(Selected{Verse: v})
			}
		case "up", "ctrl+p":
			m.move(-1)
			return m, nil
		case "down", "ctrl+n":
			m.move(1)
			return m, nil
		case "pgup":
			m.move(-m.visibleRows())
			return m, nil
		case "pgdown":
			m.move(m.visibleRows())
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refresh()
	}
	return m, cmd
}
