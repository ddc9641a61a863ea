package headerbar

import (
	"strings"
	"testing"

	"github.com/llehouerou/tartil/internal/ui/testutil"
)

func TestRender(t *testing.T) {
	info := Info{
		Chapter:    1,
		Name:       "Al-Fatihah",
		Translated: "The Opener",
		Arabic:     "الفاتحة",
		Verses:     7,
		Reciter:    "Mishari Rashid al-`Afasy",
	}
	out := testutil.StripANSI(Render(info, 120))

	for _, want := range []string{"tartil", "1. Al-Fatihah (The Opener)", "7 verses", "الفاتحة", "Mishari"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q: %q", want, out)
		}
	}
	if got := testutil.MeasureWidth(out); got != 120 {
		t.Errorf("width = %d, want 120", got)
	}
}

func TestRender_Offline(t *testing.T) {
	out := testutil.StripANSI(Render(Info{Chapter: 2, Name: "Al-Baqarah", Verses: 286, Offline: true}, 100))
	if !strings.Contains(out, "offline") {
		t.Errorf("missing offline marker: %q", out)
	}
}

func TestRender_NoChapter(t *testing.T) {
	out := testutil.StripANSI(Render(Info{}, 60))
	if !strings.Contains(out, "no chapter loaded") {
		t.Errorf("unexpected header %q", out)
	}
}

func TestRender_Narrow(t *testing.T) {
	if Render(Info{Chapter: 1}, 10) != "" {
		t.Error("too narrow header should be empty")
	}
	out := testutil.StripANSI(Render(Info{
		Chapter: 2, Name: "Al-Baqarah", Translated: "The Cow", Verses: 286, Arabic: "البقرة",
	}, 40))
	if testutil.MeasureWidth(out) > 40 {
		t.Errorf("header overflows: %q", out)
	}
	if !strings.Contains(out, "286 verses") {
		t.Errorf("verse count dropped: %q", out)
	}
}
