//go:build !windows

package stderr

import (
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

// Capture is an active redirection of fd 2.
type Capture struct {
	orig int
	r, w *os.File
	done chan struct{}
}

// Start redirects fd 2 to log. The program can continue without capture
// when it fails; output then goes to the terminal as before.
func Start(log *slog.Logger) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	fd := int(os.Stderr.Fd())
	orig, err := unix.Dup(fd)
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	if err := unix.Dup2(int(w.Fd()), fd); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{orig: orig, r: r, w: w, done: make(chan struct{})}
	go func() {
		defer close(c.done)
		forward(r, log)
	}()
	return c, nil
}

// WriteOriginal writes to the terminal's stderr, bypassing the capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = unix.Write(c.orig, []byte(msg))
}

// Stop restores fd 2 and waits until captured output is logged.
func (c *Capture) Stop() {
	_ = unix.Dup2(c.orig, int(os.Stderr.Fd()))
	_ = unix.Close(c.orig)
	c.w.Close()
	<-c.done
	c.r.Close()
}
