// Package translit converts Arabic verse text to Latin script and
// normalizes it for comparison.
package translit

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const tatweel = '\u0640'

// isDiacritic reports harakat, tanwin, Quranic annotation marks and tatweel.
func isDiacritic(r rune) bool {
	switch {
	case r >= '\u064B' && r <= '\u065F':
		return true
	case r == '\u0670':
		return true
	case r >= '\u06D6' && r <= '\u06ED':
		return true
	case r == tatweel:
		return true
	}
	return false
}

func stripper() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.Predicate(isDiacritic)), norm.NFC)
}

// Strip removes every Arabic diacritic. Hamza carriers and madda decompose
// under NFD, so أ إ آ all come out as bare alef.
func Strip(text string) string {
	out, _, err := transform.String(stripper(), text)
	if err != nil {
		return text
	}
	return out
}

var unifier = strings.NewReplacer(
	"\u0671", "\u0627", // alef wasla
	"\u0649", "\u064A", // alef maqsura
	"\u0629", "\u0647", // ta marbuta
)

// Normalize strips diacritics, unifies alef, ya and ta marbuta forms and
// collapses whitespace. Latin input is lowercased.
func Normalize(text string) string {
	s := unifier.Replace(Strip(text))
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) && r != '\''
	})
	return strings.ToLower(strings.Join(fields, " "))
}

// Words returns the normalized words of text.
func Words(text string) []string {
	n := Normalize(text)
	if n == "" {
		return nil
	}
	return strings.Split(n, " ")
}
