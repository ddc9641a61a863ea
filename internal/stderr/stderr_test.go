package stderr

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestForward_LogsNonBlankLines(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	forward(strings.NewReader("ALSA lib pcm.c: underrun\n\n   \nsecond line  \n"), log)

	out := buf.String()
	if got := strings.Count(out, "captured stderr"); got != 2 {
		t.Fatalf("logged %d lines, want 2:\n%s", got, out)
	}
	if !strings.Contains(out, `line="ALSA lib pcm.c: underrun"`) {
		t.Errorf("first line missing:\n%s", out)
	}
	if !strings.Contains(out, "line=\"second line\"") {
		t.Errorf("second line not trimmed:\n%s", out)
	}
}
