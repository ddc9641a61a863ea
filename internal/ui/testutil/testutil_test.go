package testutil

import (
	"slices"
	"testing"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"\x1b[1mbold\x1b[0m", "bold"},
		{"\x1b[38;2;79;209;197mcolor\x1b[0m text", "color text"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripANSI(tt.in); got != tt.want {
			t.Errorf("StripANSI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMeasureWidth(t *testing.T) {
	if got := MeasureWidth("\x1b[1mبسم\x1b[0m"); got != 3 {
		t.Errorf("MeasureWidth = %d, want 3", got)
	}
}

func TestFindLine(t *testing.T) {
	out := "first\n  1:7 verse\nlast"
	if got := FindLine(out, "1:7"); got != "  1:7 verse" {
		t.Errorf("FindLine = %q", got)
	}
	if FindLine(out, "missing") != "" || ContainsLine(out, "missing") {
		t.Error("found a missing line")
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("a\n\nb\n  \n\n")
	if !slices.Equal(got, []string{"a", "", "b"}) {
		t.Errorf("SplitLines = %q", got)
	}
}
