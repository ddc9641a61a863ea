package audiofile

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tartil/internal/logging"
	"github.com/llehouerou/tartil/internal/quran"
	"github.com/llehouerou/tartil/internal/segment"
)

var fatihaSegments = []segment.Segment{
	{Verse: 1, Start: 0, End: 5.25},
	{Verse: 2, Start: 5.25, End: 10.5},
	{Verse: 3, Start: 11, End: 14.125},
}

func TestTimings_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTimings(&buf, Meta{Reciter: 7, Chapter: 1}, fatihaSegments))

	want := "[ti:001]\n[ar:7]\n[00:00.000]1\n[00:05.250]2\n[00:10.500]\n[00:11.000]3\n[00:14.125]\n"
	assert.Equal(t, want, buf.String())

	meta, segs, err := ReadTimings(&buf)
	require.NoError(t, err)
	assert.Equal(t, Meta{Reciter: 7, Chapter: 1}, meta)
	assert.Equal(t, fatihaSegments, segs)
}

func TestReadTimings_Centiseconds(t *testing.T) {
	_, segs, err := ReadTimings(strings.NewReader("[01:02.50]4\n[01:05.75]5\n[01:10.00]\n"))
	require.NoError(t, err)
	assert.Equal(t, []segment.Segment{
		{Verse: 4, Start: 62.5, End: 65.75},
		{Verse: 5, Start: 65.75, End: 70},
	}, segs)
}

func TestReadTimings_DropsUnterminatedVerse(t *testing.T) {
	_, segs, err := ReadTimings(strings.NewReader("[00:00.00]1\n[00:03.00]2\n"))
	require.NoError(t, err)
	assert.Equal(t, []segment.Segment{{Verse: 1, Start: 0, End: 3}}, segs)
}

func TestReadTimings_BadVerse(t *testing.T) {
	_, _, err := ReadTimings(strings.NewReader("[00:00.00]one\n"))
	assert.Error(t, err)
}

func newAudioServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/missing.mp3" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ID3 fake mp3"))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetch_DownloadsOnceAndWritesTimings(t *testing.T) {
	srv, hits := newAudioServer(t)
	s := New(t.TempDir(), WithLogger(logging.Discard()))
	rec := quran.Recitation{
		ReciterID: 7,
		Chapter:   1,
		AudioURL:  srv.URL + "/7/001.mp3?v=2",
		Segments:  fatihaSegments,
	}

	path, err := s.Fetch(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "reciter-7", "001.mp3"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID3 fake mp3", string(data))

	again, err := s.Fetch(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, int32(1), hits.Load())

	cached, segs, err := s.Cached(7, 1)
	require.NoError(t, err)
	assert.Equal(t, path, cached)
	assert.Equal(t, fatihaSegments, segs)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files are cleaned up")
}

func TestFetch_UpstreamErrorLeavesNoFile(t *testing.T) {
	srv, _ := newAudioServer(t)
	s := New(t.TempDir(), WithLogger(logging.Discard()))

	_, err := s.Fetch(context.Background(), quran.Recitation{ReciterID: 1, Chapter: 2, AudioURL: srv.URL + "/missing.mp3"})
	require.Error(t, err)

	_, _, err = s.Cached(1, 2)
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestFetch_RequiresURL(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Fetch(context.Background(), quran.Recitation{ReciterID: 1, Chapter: 2})
	assert.Error(t, err)
}

func TestCached_WithoutTimings(t *testing.T) {
	s := New(t.TempDir())
	path := s.Path(3, 112, ".mp3")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	got, segs, err := s.Cached(3, 112)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Empty(t, segs)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{"001.mp3", "001.mp3"},
		{"a/b:c", "a_b_c"},
		{" ..", "_"},
		{strings.Repeat("x", 120), strings.Repeat("x", 100)},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
