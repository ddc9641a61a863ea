package search

import (
	"github.com/samber/lo"
)

// VerseHit is a local verse match.
type VerseHit struct {
	VerseItem
	Score float64 `json:"score"`
}

// VerseIndex is an in-memory trigram index over verses.
type VerseIndex struct {
	verses []VerseItem
	tris   *trigramIndex
}

// NewVerseIndex builds an index over verses.
func NewVerseIndex(verses []VerseItem) *VerseIndex {
	return &VerseIndex{
		verses: verses,
		tris:   newTrigramIndex(lo.Map(verses, func(v VerseItem, _ int) string { return v.filterText() })),
	}
}

// Len returns the number of indexed verses.
func (ix *VerseIndex) Len() int {
	return len(ix.verses)
}

// Search returns up to limit hits (limit <= 0 means all). An empty query
// matches nothing.
func (ix *VerseIndex) Search(query string, limit int) []VerseHit {
	hits := ix.tris.query(query)
	if len(hits) == 0 {
		return nil
	}
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return lo.Map(hits, func(h hit, _ int) VerseHit {
		return VerseHit{VerseItem: ix.verses[h.doc], Score: h.score}
	})
}

// all lists every verse in order, unscored.
func (ix *VerseIndex) all() []VerseHit {
	return lo.Map(ix.verses, func(v VerseItem, _ int) VerseHit {
		return VerseHit{VerseItem: v}
	})
}
