package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tartil/internal/quran"
)

func chapter(id int, simple, arabic, translated string) quran.Chapter {
	ch := quran.Chapter{ID: id, NameSimple: simple, NameArabic: arabic}
	ch.TranslatedName.Name = translated
	return ch
}

var testChapters = []quran.Chapter{
	chapter(1, "Al-Fatihah", "الفاتحة", "The Opener"),
	chapter(2, "Al-Baqarah", "البقرة", "The Cow"),
	chapter(3, "Ali 'Imran", "آل عمران", "Family of Imran"),
	chapter(112, "Al-Ikhlas", "الإخلاص", "The Sincerity"),
}

func TestChapterFinder_Resolve(t *testing.T) {
	f := NewChapterFinder(testChapters)

	tests := []struct {
		query string
		want  int
	}{
		{"2", 2},
		{"112", 112},
		{"baqarah", 2},
		{"Al-Baqara", 2},
		{"fatiha", 1},
		{"cow", 2},
		{"ikhlas", 112},
		{"البقرة", 2},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			ch, err := f.Resolve(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ch.ID)
		})
	}
}

func TestChapterFinder_NoMatch(t *testing.T) {
	f := NewChapterFinder(testChapters)

	for _, q := range []string{"", "115", "zzzz"} {
		_, err := f.Resolve(q)
		assert.ErrorIs(t, err, ErrNoChapter, q)
	}
}

func TestChapterFinder_OneHitPerChapter(t *testing.T) {
	f := NewChapterFinder(testChapters)
	hits := f.Find("a")
	seen := map[int]bool{}
	for _, h := range hits {
		assert.False(t, seen[h.Chapter.ID], "chapter %d listed twice", h.Chapter.ID)
		seen[h.Chapter.ID] = true
	}
}

var testVerses = []VerseItem{
	{Chapter: 112, Verse: 1, Arabic: "قُلْ هُوَ ٱللَّهُ أَحَدٌ", Translit: "qul huwa al-lahu 'ahadun", Translation: "Say, He is Allah, the One"},
	{Chapter: 112, Verse: 2, Arabic: "ٱللَّهُ ٱلصَّمَدُ", Translit: "al-lahu as-samadu", Translation: "Allah, the Eternal Refuge"},
	{Chapter: 112, Verse: 3, Arabic: "لَمْ يَلِدْ وَلَمْ يُولَدْ", Translit: "lam yalid wa lam yuulad", Translation: "He neither begets nor is born"},
}

func TestVerseIndex_Search(t *testing.T) {
	ix := NewVerseIndex(testVerses)

	hits := ix.Search("eternal refuge", 0)
	require.Len(t, hits, 1)
	assert.Equal(t, "112:2", hits[0].Key())

	hits = ix.Search("الصمد", 0)
	require.Len(t, hits, 1)
	assert.Equal(t, 2, hits[0].Verse)

	hits = ix.Search("allah", 1)
	assert.Len(t, hits, 1)

	assert.Nil(t, ix.Search("  ", 0))
	assert.Nil(t, ix.Search("xyzzy", 0))
	assert.Equal(t, 3, ix.Len())
}

type stubRemote struct {
	page quran.SearchPage
	err  error
	hits int
}

func (s *stubRemote) Search(context.Context, string, int) (quran.SearchPage, error) {
	s.hits++
	return s.page, s.err
}

func TestService_Remote(t *testing.T) {
	remote := &stubRemote{page: quran.SearchPage{
		TotalResults: 1, CurrentPage: 1, TotalPages: 1,
		Results: []quran.SearchResult{{
			VerseKey: "112:1", Text: "قُلْ هُوَ ٱللَّهُ أَحَدٌ",
			Translations: []quran.Translation{{Text: "Say, He is Allah"}},
		}},
	}}
	s := NewService(remote, NewVerseIndex(testVerses), nil)

	p, err := s.Search(context.Background(), "one", 0)
	require.NoError(t, err)
	assert.Equal(t, "remote", p.Source)
	assert.Equal(t, 1, p.Page)
	require.Len(t, p.Results, 1)
	assert.Equal(t, "Say, He is Allah", p.Results[0].Translation)
}

func TestService_FallsBackToLocal(t *testing.T) {
	remote := &stubRemote{err: errors.New("upstream down")}
	s := NewService(remote, NewVerseIndex(testVerses), nil)

	p, err := s.Search(context.Background(), "begets", 1)
	require.NoError(t, err)
	assert.Equal(t, "local", p.Source)
	assert.Equal(t, 1, p.Total)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, "112:3", p.Results[0].VerseKey)
	assert.Equal(t, 1, remote.hits)
}

func TestService_LocalPagingPastEnd(t *testing.T) {
	s := NewService(nil, NewVerseIndex(testVerses), nil)
	p, err := s.Search(context.Background(), "allah", 5)
	require.NoError(t, err)
	assert.Empty(t, p.Results)
	assert.Equal(t, 2, p.Total)
}

func TestService_Errors(t *testing.T) {
	s := NewService(&stubRemote{err: errors.New("down")}, nil, nil)
	_, err := s.Search(context.Background(), "x", 1)
	assert.Error(t, err)

	p, err := s.Search(context.Background(), " ", 1)
	require.NoError(t, err)
	assert.Empty(t, p.Results)
}
