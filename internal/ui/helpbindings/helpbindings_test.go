package helpbindings

import (
	"strings"
	"testing"

	"github.com/llehouerou/tartil/internal/ui/testutil"
)

func newHelp(height int) (*Model, *testutil.PopupHarness) {
	m := New()
	m.SetSize(80, height)
	return m, testutil.NewPopupHarness(m)
}

func TestHelpBindings_Close(t *testing.T) {
	for _, key := range []string{"?", "q"} {
		t.Run(key, func(t *testing.T) {
			_, h := newHelp(40)
			h.SendKey(key)
			if _, ok := h.LastAction(t).(Close); !ok {
				t.Fatalf("expected Close, got %T", h.LastAction(t))
			}
		})
	}

	_, h := newHelp(40)
	h.SendEscape()
	if _, ok := h.LastAction(t).(Close); !ok {
		t.Fatal("escape did not close")
	}
}

func TestHelpBindings_ListsContexts(t *testing.T) {
	_, h := newHelp(60)
	for _, want := range []string{"Global", "Playback", "Verses", "Repeat", "space", "Play/pause", "Repeat from cursor"} {
		if !h.ViewContains(want) {
			t.Errorf("help missing %q", want)
		}
	}
	if strings.Contains(testutil.StripANSI(h.View()), "j/k scroll") {
		t.Error("tall popup should not offer scrolling")
	}
}

func TestHelpBindings_Scroll(t *testing.T) {
	m, h := newHelp(14)
	if m.maxScroll() == 0 {
		t.Fatal("expected scrollable content")
	}
	if !h.ViewContains("j/k scroll") {
		t.Error("footer should mention scrolling")
	}

	h.SendKey("k")
	if m.scrollOffset != 0 {
		t.Errorf("scrolled above top: %d", m.scrollOffset)
	}
	for range m.maxScroll() + 5 {
		h.SendKey("j")
	}
	if m.scrollOffset != m.maxScroll() {
		t.Errorf("scrollOffset = %d, want %d", m.scrollOffset, m.maxScroll())
	}
	if !h.ViewContains("Toggle time range") {
		t.Error("last binding not visible at the bottom")
	}
}

func TestHelpBindings_ZeroSize(t *testing.T) {
	m := New()
	if m.View() != "" {
		t.Error("zero-size popup should render nothing")
	}
}
