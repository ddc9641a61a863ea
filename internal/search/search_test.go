package search

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tartil/internal/ui/action"
	"github.com/llehouerou/tartil/internal/ui/testutil"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello", "hello"},
		{"", ""},
		{"Al-Fatihah", "al fatihah"},
		{"ٱلْحَمْدُ لِلَّهِ", "الحمد لله"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(tt.input))
		})
	}
}

func TestTrigrams(t *testing.T) {
	assert.Nil(t, trigrams(""))
	assert.Equal(t, []string{"  a", " a ", "a  "}, trigrams("a"))
	assert.Equal(t, []string{"  a", " ab", "ab ", "b  "}, trigrams("ab"))
	// Repeated trigrams are listed once.
	assert.Len(t, trigrams("aaaa"), 5)
}

func TestTrigramIndex_Query(t *testing.T) {
	ix := newTrigramIndex([]string{
		"In the name of Allah, the Entirely Merciful",
		"All praise is due to Allah, Lord of the worlds",
		"The Entirely Merciful, the Especially Merciful",
		"Sovereign of the Day of Recompense",
	})

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"blank", "   ", nil},
		{"ties keep document order", "merciful", []int{0, 2}},
		{"all words must match", "allah lord", []int{1}},
		{"case insensitive", "SOVEREIGN", []int{3}},
		{"short word is a substring", "of", []int{0, 1, 3}},
		{"typo tolerated", "mercifull", []int{0, 2}},
		{"no match", "zebra", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := ix.query(tt.query)
			docs := make([]int, 0, len(hits))
			for _, h := range hits {
				docs = append(docs, h.doc)
			}
			if tt.want == nil {
				assert.Empty(t, docs)
				return
			}
			assert.Equal(t, tt.want, docs)
		})
	}
}

func TestTrigramIndex_ScoresSorted(t *testing.T) {
	ix := newTrigramIndex([]string{"the day", "day of recompense", "recompense"})
	hits := ix.query("recompense")
	require.Len(t, hits, 2)
	// The padded prefix trigram only matches where the word starts the text.
	assert.Equal(t, 2, hits[0].doc)
	assert.Equal(t, 1, hits[1].doc)
	assert.Greater(t, hits[0].score, hits[1].score)
}

func TestTrigramIndex_ArabicIgnoresDiacritics(t *testing.T) {
	ix := newTrigramIndex([]string{"قُلْ هُوَ ٱللَّهُ أَحَدٌ", "ٱللَّهُ ٱلصَّمَدُ"})
	hits := ix.query("الصمد")
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].doc)
}

func openFinder(t *testing.T) Model {
	t.Helper()
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Open(NewVerseIndex(testVerses))
	return m
}

func typeQuery(m Model, q string) Model {
	for _, r := range q {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func selection(t *testing.T, cmd tea.Cmd) Selected {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(action.Msg)
	require.True(t, ok)
	assert.Equal(t, "search", msg.Source)
	sel, ok := msg.Action.(Selected)
	require.True(t, ok)
	return sel
}

func TestModel_EmptyQueryListsAllVerses(t *testing.T) {
	m := openFinder(t)
	assert.Len(t, m.Hits(), len(testVerses))
	assert.Equal(t, 1, m.Hits()[0].Verse)
}

func TestModel_TypingFilters(t *testing.T) {
	m := typeQuery(openFinder(t), "begets")
	assert.Equal(t, "begets", m.Query())
	require.Len(t, m.Hits(), 1)
	assert.Equal(t, 3, m.Hits()[0].Verse)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "beget", m.Query())
	assert.Len(t, m.Hits(), 1)
}

func TestModel_EnterSelectsCursor(t *testing.T) {
	m := openFinder(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown}) // clamped
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	sel := selection(t, cmd)
	assert.False(t, sel.Canceled)
	assert.Equal(t, "112:3", sel.Verse.Key())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 2, selection(t, cmd).Verse.Verse)
}

func TestModel_EnterWithoutMatches(t *testing.T) {
	m := typeQuery(openFinder(t), "zzzz")
	assert.Empty(t, m.Hits())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	sel := selection(t, cmd)
	assert.False(t, sel.Canceled)
	assert.Zero(t, sel.Verse.Verse)
}

func TestModel_EscapeCancels(t *testing.T) {
	_, cmd := openFinder(t).Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, selection(t, cmd).Canceled)
}

func TestModel_QueryResetsCursor(t *testing.T) {
	m := openFinder(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)
	m = typeQuery(m, "a")
	assert.Equal(t, 0, m.cursor)
}

func TestModel_ReopenClearsQuery(t *testing.T) {
	m := typeQuery(openFinder(t), "eternal")
	m.Close()
	assert.Empty(t, m.Hits())
	m.Open(NewVerseIndex(testVerses))
	assert.Empty(t, m.Query())
	assert.Len(t, m.Hits(), len(testVerses))
}

func TestModel_View(t *testing.T) {
	assert.Empty(t, New().View(), "no size yet")

	m := openFinder(t)
	view := testutil.StripANSI(m.View())
	assert.Contains(t, view, "112:1")
	assert.Contains(t, view, "Say, He is Allah")
	assert.Contains(t, view, "3 verses")
	assert.Contains(t, view, "▸ 112:1")

	m = typeQuery(m, "zzzz")
	assert.Contains(t, testutil.StripANSI(m.View()), "No matches")
}
