// Package audiofile keeps downloaded recitation audio and its verse timings
// in the local cache directory.
package audiofile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/llehouerou/tartil/internal/observe"
	"github.com/llehouerou/tartil/internal/quran"
	"github.com/llehouerou/tartil/internal/segment"
)

// ErrNotCached is returned by Cached when no local copy exists.
var ErrNotCached = errors.New("audio not cached")

// Store downloads recitation audio into a directory.
type Store struct {
	dir        string
	httpClient *http.Client
	metrics    *observe.Metrics
	log        *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient sets the client used for downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) { s.httpClient = c }
}

// WithMetrics records downloads as upstream calls.
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// DefaultDir returns the audio cache directory under the xdg cache home.
func DefaultDir() string {
	return filepath.Join(xdg.CacheHome, "tartil", "audio")
}

// New creates a store rooted at dir. An empty dir uses DefaultDir.
func New(dir string, opts ...Option) *Store {
	if dir == "" {
		dir = DefaultDir()
	}
	s := &Store{
		dir:        dir,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the root directory.
func (s *Store) Dir() string { return s.dir }

// Path returns where the audio of a recitation is stored.
func (s *Store) Path(reciter, chapter int, ext string) string {
	if ext == "" {
		ext = ".mp3"
	}
	name := sanitizeFilename(fmt.Sprintf("%03d%s", chapter, ext))
	return filepath.Join(s.dir, sanitizeFilename(fmt.Sprintf("reciter-%d", reciter)), name)
}

func (s *Store) pathFor(rec quran.Recitation) string {
	ext := path.Ext(strings.SplitN(rec.AudioURL, "?", 2)[0])
	if ext == "" && rec.Format != "" {
		ext = "." + rec.Format
	}
	return s.Path(rec.ReciterID, rec.Chapter, ext)
}

// Fetch returns the local path of the recitation audio, downloading it when
// missing. The verse timings are written next to the audio.
func (s *Store) Fetch(ctx context.Context, rec quran.Recitation) (string, error) {
	if rec.AudioURL == "" {
		return "", fmt.Errorf("recitation %d/%d has no audio url", rec.ReciterID, rec.Chapter)
	}
	dst := s.pathFor(rec)

	if _, err := os.Stat(dst); err == nil {
		s.metrics.RecordCache(ctx, true)
		if len(rec.Segments) > 0 {
			s.saveTimings(dst, rec)
		}
		return dst, nil
	}
	s.metrics.RecordCache(ctx, false)

	start := time.Now()
	err := s.download(ctx, rec.AudioURL, dst)
	s.metrics.RecordUpstream(ctx, "audio", time.Since(start).Seconds(), err)
	if err != nil {
		return "", err
	}
	s.log.Info("audio downloaded", "reciter", rec.ReciterID, "chapter", rec.Chapter, "path", dst)

	if len(rec.Segments) > 0 {
		s.saveTimings(dst, rec)
	}
	return dst, nil
}

// Cached returns the local audio of a chapter and its stored timings
// without touching the network.
func (s *Store) Cached(reciter, chapter int) (string, []segment.Segment, error) {
	dir := filepath.Dir(s.Path(reciter, chapter, ""))
	matches, err := filepath.Glob(filepath.Join(dir, fmt.Sprintf("%03d.*", chapter)))
	if err != nil {
		return "", nil, err
	}
	for _, m := range matches {
		if filepath.Ext(m) == timingsExt {
			continue
		}
		segs, err := LoadTimings(timingsPath(m))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", nil, err
		}
		return m, segs, nil
	}
	return "", nil, ErrNotCached
}

func (s *Store) download(ctx context.Context, url, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download audio: unexpected status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("write audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func (s *Store) saveTimings(audioPath string, rec quran.Recitation) {
	meta := Meta{Reciter: rec.ReciterID, Chapter: rec.Chapter}
	if err := SaveTimings(timingsPath(audioPath), meta, rec.Segments); err != nil {
		s.log.Warn("save verse timings", "path", audioPath, "error", err)
	}
}

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

func sanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, " .")
	if len(name) > 100 {
		name = name[:100]
	}
	if name == "" {
		name = "_"
	}
	return name
}
