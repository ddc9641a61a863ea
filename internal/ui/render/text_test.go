package render

import (
	"slices"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"clean", "hello", "hello"},
		{"control chars", "a\x00b\x1bc", "abc"},
		{"tab kept", "a\tb", "a\tb"},
		{"nbsp", "a\u00a0b", "a b"},
		{"invalid utf8", "a\xffb", "ab"},
		{"arabic", "بِسْمِ", "بِسْمِ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"no truncation needed", "hello", 10, "hello"},
		{"exact fit", "hello", 5, "hello"},
		{"truncation with ellipsis", "hello world", 8, "hello..."},
		{"very short max width", "hello", 3, "..."},
		{"empty string", "", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxWidth); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestTruncateAndPad(t *testing.T) {
	for _, in := range []string{"", "abc", "a much longer line of text"} {
		got := TruncateAndPad(in, 10)
		if w := runewidth.StringWidth(got); w != 10 {
			t.Errorf("TruncateAndPad(%q) width = %d, want 10", in, w)
		}
	}
}

func TestAlignRight(t *testing.T) {
	if got := AlignRight("abc", 6); got != "   abc" {
		t.Errorf("AlignRight = %q", got)
	}
	if got := AlignRight("abcdefgh", 6); got != "abc..." {
		t.Errorf("AlignRight overflow = %q", got)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{"fits", "say he is one", 20, []string{"say he is one"}},
		{"breaks on spaces", "say he is allah the one", 10, []string{"say he is", "allah the", "one"}},
		{"long word truncated", "abcdefghijkl x", 5, []string{"abcd…", "x"}},
		{"empty", "   ", 10, nil},
		{"zero width", "abc", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Wrap(tt.in, tt.width); !slices.Equal(got, tt.want) {
				t.Errorf("Wrap(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestRow(t *testing.T) {
	if got := Row("left", "right", 15); got != "left      right" {
		t.Errorf("Row = %q", got)
	}
	if got := Row("left", "right", 5); got != "left right" {
		t.Errorf("Row overflow = %q", got)
	}
}

func TestSeparator(t *testing.T) {
	if got := Separator(3); got != "───" {
		t.Errorf("Separator(3) = %q", got)
	}
	if got := Separator(-1); got != "" {
		t.Errorf("Separator(-1) = %q", got)
	}
}
