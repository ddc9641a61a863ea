package quran

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/llehouerou/tartil/internal/segment"
)

// Chapter is a surah as listed by the content API.
type Chapter struct {
	ID              int    `json:"id"`
	NameSimple      string `json:"name_simple"`
	NameComplex     string `json:"name_complex"`
	NameArabic      string `json:"name_arabic"`
	VersesCount     int    `json:"verses_count"`
	RevelationPlace string `json:"revelation_place"`
	RevelationOrder int    `json:"revelation_order"`
	BismillahPre    bool   `json:"bismillah_pre"`
	TranslatedName  struct {
		LanguageName string `json:"language_name"`
		Name         string `json:"name"`
	} `json:"translated_name"`
}

// Translation is one translation resource attached to a verse.
type Translation struct {
	ResourceID int    `json:"resource_id"`
	Text       string `json:"text"`
}

// Verse is an ayah with its Uthmani text and the configured translation.
type Verse struct {
	ID           int           `json:"id"`
	Number       int           `json:"verse_number"`
	Key          string        `json:"verse_key"`
	TextUthmani  string        `json:"text_uthmani"`
	Translations []Translation `json:"translations,omitempty"`
}

// Translation returns the first translation text, or "".
func (v Verse) Translation() string {
	if len(v.Translations) == 0 {
		return ""
	}
	return stripFootnotes(v.Translations[0].Text)
}

// SearchResult is one remote full-text match.
type SearchResult struct {
	VerseKey     string        `json:"verse_key"`
	VerseID      int           `json:"verse_id"`
	Text         string        `json:"text"`
	Translations []Translation `json:"translations,omitempty"`
}

// SearchPage is one page of remote search results.
type SearchPage struct {
	Query        string         `json:"query"`
	TotalResults int            `json:"total_results"`
	CurrentPage  int            `json:"current_page"`
	TotalPages   int            `json:"total_pages"`
	Results      []SearchResult `json:"results"`
}

// Reciter is an audio recitation resource.
type Reciter struct {
	ID             int    `json:"id"`
	Name           string `json:"reciter_name"`
	Style          string `json:"style,omitempty"`
	TranslatedName struct {
		Name string `json:"name"`
	} `json:"translated_name"`
}

// Recitation is a chapter recording with per-verse timings in seconds.
type Recitation struct {
	ReciterID int               `json:"reciter_id"`
	Chapter   int               `json:"chapter"`
	AudioURL  string            `json:"audio_url"`
	Format    string            `json:"format"`
	Segments  []segment.Segment `json:"segments"`
}

// Bundle is everything the player needs for one chapter.
type Bundle struct {
	Chapter    Chapter
	Verses     []Verse
	Recitation Recitation
}

// ParseVerseKey splits "chapter:verse".
func ParseVerseKey(key string) (chapter, verse int, err error) {
	c, v, ok := strings.Cut(key, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid verse key %q", key)
	}
	chapter, err = strconv.Atoi(c)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid verse key %q: %w", key, err)
	}
	verse, err = strconv.Atoi(v)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid verse key %q: %w", key, err)
	}
	return chapter, verse, nil
}

// stripFootnotes removes <sup foot_note=..>n</sup> markers and other tags
// the API embeds in translation text.
func stripFootnotes(s string) string {
	for {
		i := strings.Index(s, "<sup")
		if i < 0 {
			break
		}
		j := strings.Index(s[i:], "</sup>")
		if j < 0 {
			s = s[:i]
			break
		}
		s = s[:i] + s[i+j+len("</sup>"):]
	}
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
