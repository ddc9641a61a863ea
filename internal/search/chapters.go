package search

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/llehouerou/tartil/internal/quran"
	"github.com/llehouerou/tartil/internal/translit"
)

// ErrNoChapter is returned when a query resolves to no chapter.
var ErrNoChapter = errors.New("no matching chapter")

// ChapterHit is a ranked chapter lookup result. Lower Distance is better.
type ChapterHit struct {
	Chapter  quran.Chapter
	Distance int
}

// ChapterFinder resolves chapter numbers and names.
type ChapterFinder struct {
	chapters []quran.Chapter
	names    []string
	owner    []int // names[i] belongs to chapters[owner[i]]
}

// NewChapterFinder indexes simple, complex, Arabic and translated names.
func NewChapterFinder(chapters []quran.Chapter) *ChapterFinder {
	f := &ChapterFinder{chapters: chapters}
	for i, ch := range chapters {
		for _, name := range []string{ch.NameSimple, ch.NameComplex, ch.TranslatedName.Name} {
			if name != "" {
				f.names = append(f.names, simplifyName(name))
				f.owner = append(f.owner, i)
			}
		}
		if ch.NameArabic != "" {
			f.names = append(f.names, translit.Normalize(ch.NameArabic))
			f.owner = append(f.owner, i)
		}
	}
	return f
}

// simplifyName drops the article and punctuation so "al-baqarah",
// "Al Baqarah" and "baqarah" compare alike.
func simplifyName(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("-", "", "'", "", "`", "", " ", "").Replace(s)
	return strings.TrimPrefix(s, "al")
}

// Find ranks chapters matching query, best first, at most one hit per
// chapter. A numeric query returns that chapter only.
func (f *ChapterFinder) Find(query string) []ChapterHit {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if n, err := strconv.Atoi(query); err == nil {
		for _, ch := range f.chapters {
			if ch.ID == n {
				return []ChapterHit{{Chapter: ch}}
			}
		}
		return nil
	}

	q := simplifyName(query)
	if strings.ContainsFunc(query, isArabic) {
		q = translit.Normalize(query)
	}

	best := make(map[int]int) // chapter index -> distance
	for _, r := range fuzzy.RankFindNormalizedFold(q, f.names) {
		idx := f.owner[r.OriginalIndex]
		if d, ok := best[idx]; !ok || r.Distance < d {
			best[idx] = r.Distance
		}
	}

	hits := make([]ChapterHit, 0, len(best))
	for idx, d := range best {
		hits = append(hits, ChapterHit{Chapter: f.chapters[idx], Distance: d})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Chapter.ID < hits[j].Chapter.ID
	})
	return hits
}

// Resolve returns the best chapter for query.
func (f *ChapterFinder) Resolve(query string) (quran.Chapter, error) {
	hits := f.Find(query)
	if len(hits) == 0 {
		return quran.Chapter{}, fmt.Errorf("%w: %q", ErrNoChapter, query)
	}
	return hits[0].Chapter, nil
}

func isArabic(r rune) bool {
	return r >= 0x0600 && r <= 0x06FF
}
