package translit

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	fatha         = '\u064E'
	damma         = '\u064F'
	kasra         = '\u0650'
	sukun         = '\u0652'
	shadda        = '\u0651'
	fathatan      = '\u064B'
	dammatan      = '\u064C'
	kasratan      = '\u064D'
	daggerAlef    = '\u0670'
	alefMadda     = '\u0622'
	alef          = '\u0627'
	alefWasla     = '\u0671'
	alefMaqsura   = '\u0649'
	waw           = '\u0648'
	ya            = '\u064A'
	lam           = '\u0644'
	taMarbuta     = '\u0629'
)

var consonants = map[rune]string{
	'ء': "'", 'أ': "'", 'إ': "'", 'ؤ': "'", 'ئ': "'",
	'ب': "b", 'ت': "t", 'ث': "th", 'ج': "j", 'ح': "h", 'خ': "kh",
	'د': "d", 'ذ': "dh", 'ر': "r", 'ز': "z", 'س': "s", 'ش': "sh",
	'ص': "s", 'ض': "d", 'ط': "t", 'ظ': "z", 'ع': "'", 'غ': "gh",
	'ف': "f", 'ق': "q", 'ك': "k", 'ل': "l", 'م': "m", 'ن': "n",
	'ه': "h", 'و': "w", 'ي': "y", 'ة': "h",
}

// Sun letters assimilate the lam of the definite article.
var sunLetters = map[rune]bool{
	'ت': true, 'ث': true, 'د': true, 'ذ': true, 'ر': true, 'ز': true,
	'س': true, 'ش': true, 'ص': true, 'ض': true, 'ط': true, 'ظ': true,
	'ل': true, 'ن': true,
}

// Transliterate renders vocalized Arabic text in a simple Latin scheme.
// Short vowels come from harakat, so unvocalized input yields consonants
// and long vowels only. Non-Arabic runes pass through.
func Transliterate(text string) string {
	words := strings.Fields(norm.NFC.String(text))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if t := word([]rune(w)); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}

func word(rs []rune) string {
	var b strings.Builder
	article, i, assimilated := definiteArticle(rs)
	b.WriteString(article)

	var prev rune // last short vowel written
	for ; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == fatha:
			b.WriteByte('a')
			prev = r
		case r == damma:
			b.WriteByte('u')
			prev = r
		case r == kasra:
			b.WriteByte('i')
			prev = r
		case r == fathatan:
			b.WriteString("an")
			prev = 0
		case r == dammatan:
			b.WriteString("un")
			prev = 0
		case r == kasratan:
			b.WriteString("in")
			prev = 0
		case r == daggerAlef:
			if prev == fatha {
				b.WriteByte('a')
			} else {
				b.WriteString("aa")
			}
			prev = 0
		case r == alefMadda:
			b.WriteString("'aa")
			prev = 0
		case r == alef || r == alefMaqsura:
			if prev == fatha || i == 0 {
				b.WriteByte('a')
			}
			prev = 0
		case r == alefWasla:
			if i == 0 {
				b.WriteByte('a')
			}
			prev = 0
		case r == waw && prev == damma && !vowelFollows(rs, i):
			b.WriteByte('u')
			prev = 0
		case r == ya && prev == kasra && !vowelFollows(rs, i):
			b.WriteByte('i')
			prev = 0
		case r == taMarbuta && vowelFollows(rs, i):
			b.WriteByte('t')
			prev = 0
		case isDiacritic(r):
			// sukun, shadda, maddah and annotation marks
		default:
			c, ok := consonants[r]
			if !ok {
				if unicode.IsLetter(r) || unicode.IsDigit(r) {
					b.WriteRune(r)
				}
				prev = 0
				continue
			}
			b.WriteString(c)
			// The article already carries an assimilated sun letter.
			if hasShadda(rs, i) && !assimilated {
				b.WriteString(c)
			}
			assimilated = false
			prev = 0
		}
	}
	return b.String()
}

// definiteArticle handles a leading al- and returns the rendered article,
// the number of runes consumed and whether a sun letter was assimilated.
func definiteArticle(rs []rune) (string, int, bool) {
	if len(rs) < 3 || (rs[0] != alef && rs[0] != alefWasla) || rs[1] != lam {
		return "", 0, false
	}
	n := 2
	if rs[n] == sukun {
		n++
	}
	if n >= len(rs) {
		return "", 0, false
	}
	next := rs[n]
	if sunLetters[next] && hasShadda(rs, n) {
		return "a" + consonants[next] + "-", n, true
	}
	return "al-", n, false
}

func hasShadda(rs []rune, i int) bool {
	for j := i + 1; j < len(rs) && isDiacritic(rs[j]); j++ {
		if rs[j] == shadda {
			return true
		}
	}
	return false
}

func isVowelMark(r rune) bool {
	switch r {
	case fatha, damma, kasra, fathatan, dammatan, kasratan, shadda:
		return true
	}
	return false
}

// vowelFollows reports a vowel or shadda among the marks after position i.
func vowelFollows(rs []rune, i int) bool {
	for j := i + 1; j < len(rs) && isDiacritic(rs[j]); j++ {
		if isVowelMark(rs[j]) {
			return true
		}
	}
	return false
}
