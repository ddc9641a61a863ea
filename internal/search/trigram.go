package search

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/llehouerou/tartil/internal/translit"
)

const (
	// Words this short are matched as substrings, they have too few
	// trigrams to score.
	shortWord = 2
	// minCoverage is the share of a word's trigrams a document must
	// contain for the word to match.
	minCoverage = 0.4
	// exactBonus rewards documents containing the word verbatim.
	exactBonus = 0.5
)

type hit struct {
	doc   int
	score float64
}

// trigramIndex maps padded rune trigrams to the documents containing them.
// Postings are in ascending document order.
type trigramIndex struct {
	docs     []string
	postings map[string][]int
}

func newTrigramIndex(texts []string) *trigramIndex {
	ix := &trigramIndex{
		docs:     make([]string, len(texts)),
		postings: make(map[string][]int),
	}
	for doc, text := range texts {
		norm := normalize(text)
		ix.docs[doc] = norm
		for _, tri := range trigrams(norm) {
			ix.postings[tri] = append(ix.postings[tri], doc)
		}
	}
	return ix
}

// query scores every document matching all words of q, best first and
// ties in document order. A blank query matches nothing.
func (ix *trigramIndex) query(q string) []hit {
	words := strings.Fields(normalize(q))
	if len(words) == 0 {
		return nil
	}

	var total map[int]float64
	for _, word := range words {
		scores := ix.scoreWord(word, total)
		if total == nil {
			total = scores
		} else {
			for doc := range total {
				s, ok := scores[doc]
				if !ok {
					delete(total, doc)
					continue
				}
				total[doc] += s
			}
		}
		if len(total) == 0 {
			return nil
		}
	}

	hits := make([]hit, 0, len(total))
	for doc, s := range total {
		hits = append(hits, hit{doc: doc, score: s / float64(len(words))})
	}
	slices.SortFunc(hits, func(a, b hit) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.doc, b.doc)
	})
	return hits
}

// scoreWord scores the documents matching one word. When within is
// non-nil only its documents are candidates.
func (ix *trigramIndex) scoreWord(word string, within map[int]float64) map[int]float64 {
	scores := make(map[int]float64)

	if utf8.RuneCountInString(word) <= shortWord {
		match := func(doc int) {
			if strings.Contains(ix.docs[doc], word) {
				scores[doc] = 1
			}
		}
		if within != nil {
			for doc := range within {
				match(doc)
			}
		} else {
			for doc := range ix.docs {
				match(doc)
			}
		}
		return scores
	}

	tris := trigrams(word)
	shared := make(map[int]int)
	for _, tri := range tris {
		for _, doc := range ix.postings[tri] {
			shared[doc]++
		}
	}
	for doc, n := range shared {
		if within != nil {
			if _, ok := within[doc]; !ok {
				continue
			}
		}
		// Coverage of the word rather than Jaccard similarity: a short
		// word against a long verse would otherwise never pass.
		coverage := float64(n) / float64(len(tris))
		if coverage < minCoverage {
			continue
		}
		if strings.Contains(ix.docs[doc], word) {
			coverage += exactBonus
		}
		scores[doc] = coverage
	}
	return scores
}

// normalize lowercases and strips Arabic diacritics for matching.
func normalize(s string) string {
	return translit.Normalize(s)
}

// trigrams returns the distinct rune trigrams of s padded with two spaces
// on each side, so prefixes and suffixes weigh in.
func trigrams(s string) []string {
	if s == "" {
		return nil
	}
	runes := []rune("  " + s + "  ")
	out := make([]string, 0, len(runes))
	for i := 0; i+3 <= len(runes); i++ {
		tri := string(runes[i : i+3])
		if strings.TrimSpace(tri) != "" {
			out = append(out, tri)
		}
	}
	return lo.Uniq(out)
}
