package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestBlend(t *testing.T) {
	if got := Blend(0, "#000000", "#ffffff"); got != nil {
		t.Errorf("Blend(0) = %v, want nil", got)
	}
	if got := Blend(1, "#112233", "#ffffff"); len(got) != 1 || got[0] != "#112233" {
		t.Errorf("Blend(1) = %v", got)
	}

	got := Blend(3, "#000000", "#ffffff")
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0] == got[2] {
		t.Errorf("endpoints should differ, got %v", got)
	}
}

func TestBlend_NonHexFallsBackToGray(t *testing.T) {
	got := Blend(2, lipgloss.Color("39"), lipgloss.Color("39"))
	if got[0] != got[1] {
		t.Errorf("expected identical grays, got %v", got)
	}
}

func TestGradient_KeepsClusters(t *testing.T) {
	// Each cluster is styled separately; the text must survive intact
	// once styling is removed.
	text := "بِسْمِ"
	out := Gradient(text, "#000000", "#ffffff", true)
	if !strings.Contains(stripANSI(out), text) {
		t.Errorf("gradient lost characters: %q", out)
	}
	if Gradient("", "#000000", "#ffffff", false) != "" {
		t.Error("empty text should render empty")
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	in := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			in = true
		case in && r == 'm':
			in = false
		case !in:
			b.WriteRune(r)
		}
	}
	return b.String()
}
