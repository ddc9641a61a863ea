//go:build windows

package stderr

import (
	"log/slog"
	"os"
)

// Capture is a no-op on Windows, whose audio backend does not write to
// the console.
type Capture struct{}

// Start returns a no-op capture.
func Start(*slog.Logger) (*Capture, error) {
	return &Capture{}, nil
}

// WriteOriginal writes to stderr.
func (*Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop does nothing.
func (*Capture) Stop() {}
