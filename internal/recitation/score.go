// Package recitation scores recorded recitations against the verse text.
package recitation

import (
	"slices"

	"github.com/antzucaro/matchr"
	levenshtein "github.com/ka-weihe/fast-levenshtein"

	"github.com/llehouerou/tartil/internal/translit"
)

// WordStatus classifies one aligned word.
type WordStatus string

const (
	WordCorrect     WordStatus = "correct"
	WordSubstituted WordStatus = "substituted"
	WordMissed      WordStatus = "missed"
	WordExtra       WordStatus = "extra"
)

// WordResult is one step of the alignment. Expected is empty for extra
// words, Spoken is empty for missed ones.
type WordResult struct {
	Expected string     `json:"expected,omitempty"`
	Spoken   string     `json:"spoken,omitempty"`
	Status   WordStatus `json:"status"`
}

// Result is the alignment of a transcript against the expected text.
type Result struct {
	Accuracy    float64      `json:"accuracy"` // correct / expected words, 0..1
	Correct     int          `json:"correct"`
	Substituted int          `json:"substituted"`
	Missed      int          `json:"missed"`
	Extra       int          `json:"extra"`
	Words       []WordResult `json:"words"`
}

const (
	shortWord      = 4
	jaroWinklerMin = 0.9
)

// wordsMatch tolerates one edit on short words and uses Jaro-Winkler on
// longer ones. Inputs are normalized.
func wordsMatch(a, b string) bool {
	if a == b {
		return true
	}
	if len([]rune(a)) <= shortWord || len([]rune(b)) <= shortWord {
		return levenshtein.Distance(a, b) <= 1
	}
	return matchr.JaroWinkler(a, b, false) >= jaroWinklerMin
}

// Score aligns the spoken transcript to the expected text with a word-level
// edit distance and counts each outcome.
func Score(expected, spoken string) Result {
	exp := translit.Words(expected)
	got := translit.Words(spoken)
	n, m := len(exp), len(got)

	// d[i][j] is the edit cost of aligning exp[:i] with got[:j].
	d := make([][]int, n+1)
	for i := range d {
		d[i] = make([]int, m+1)
		d[i][0] = i
	}
	for j := 0; j <= m; j++ {
		d[0][j] = j
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			sub := d[i-1][j-1]
			if !wordsMatch(exp[i-1], got[j-1]) {
				sub++
			}
			d[i][j] = min(sub, d[i-1][j]+1, d[i][j-1]+1)
		}
	}

	// Gaps are preferred over substitutions when both are optimal.
	var r Result
	words := make([]WordResult, 0, max(n, m))
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && wordsMatch(exp[i-1], got[j-1]) && d[i][j] == d[i-1][j-1]:
			words = append(words, WordResult{Expected: exp[i-1], Spoken: got[j-1], Status: WordCorrect})
			r.Correct++
			i, j = i-1, j-1
		case i > 0 && d[i][j] == d[i-1][j]+1:
			words = append(words, WordResult{Expected: exp[i-1], Status: WordMissed})
			r.Missed++
			i--
		case j > 0 && d[i][j] == d[i][j-1]+1:
			words = append(words, WordResult{Spoken: got[j-1], Status: WordExtra})
			r.Extra++
			j--
		default:
			words = append(words, WordResult{Expected: exp[i-1], Spoken: got[j-1], Status: WordSubstituted})
			r.Substituted++
			i, j = i-1, j-1
		}
	}

	slices.Reverse(words)
	r.Words = words
	if n > 0 {
		r.Accuracy = float64(r.Correct) / float64(n)
	}
	return r
}
