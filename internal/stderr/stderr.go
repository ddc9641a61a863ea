// Package stderr redirects file descriptor 2 into the log while the
// terminal player runs. The audio backend (ALSA through oto) writes
// there directly, bypassing os.Stderr, which would corrupt the screen.
package stderr

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
)

// maxLine bounds a single captured line.
const maxLine = 64 * 1024

// forward logs every non-blank line read from r until it is closed.
func forward(r io.Reader, log *slog.Logger) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLine)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			log.Warn("captured stderr", "line", line)
		}
	}
}
