package search

import (
	"fmt"
	"strings"
)

// VerseItem is a verse indexed by its Arabic text, transliteration and
// translation.
type VerseItem struct {
	Chapter     int    `json:"chapter"`
	Verse       int    `json:"verse"`
	Arabic      string `json:"arabic"`
	Translit    string `json:"transliteration"`
	Translation string `json:"translation"`
}

// Key returns "chapter:verse".
func (v VerseItem) Key() string {
	return fmt.Sprintf("%d:%d", v.Chapter, v.Verse)
}

// Label is the text shown for the verse in result lists: the translation,
// else the transliteration, else the Arabic.
func (v VerseItem) Label() string {
	switch {
	case v.Translation != "":
		return v.Translation
	case v.Translit != "":
		return v.Translit
	default:
		return v.Arabic
	}
}

func (v VerseItem) filterText() string {
	return strings.Join([]string{v.Arabic, v.Translit, v.Translation}, " ")
}
