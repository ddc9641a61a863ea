package audiofile

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/llehouerou/tartil/internal/segment"
)

// Verse timings are stored as an LRC sidecar: one "[mm:ss.xxx]N" line per
// verse start and an empty "[mm:ss.xxx]" line wherever a verse ends without
// the next one starting.
const timingsExt = ".lrc"

// Meta is the header of a timings file.
type Meta struct {
	Reciter int
	Chapter int
}

var (
	// Matches timestamps like [00:12.34] or [00:12:34] or [00:12]
	timestampRe = regexp.MustCompile(`\[(\d+):(\d+)(?:[.:](\d+))?\]`)

	// Matches metadata tags like [ti:001]
	metadataRe = regexp.MustCompile(`^\[([a-z]+):([^\]]+)\]$`)
)

func timingsPath(audioPath string) string {
	ext := filepath.Ext(audioPath)
	return audioPath[:len(audioPath)-len(ext)] + timingsExt
}

// WriteTimings encodes segments in list order.
func WriteTimings(w io.Writer, meta Meta, segs []segment.Segment) error {
	bw := bufio.NewWriter(w)
	if meta.Chapter > 0 {
		fmt.Fprintf(bw, "[ti:%03d]\n", meta.Chapter)
	}
	if meta.Reciter > 0 {
		fmt.Fprintf(bw, "[ar:%d]\n", meta.Reciter)
	}
	for i, s := range segs {
		fmt.Fprintf(bw, "%s%d\n", stamp(s.Start), s.Verse)
		if i == len(segs)-1 || segs[i+1].Start != s.End {
			fmt.Fprintf(bw, "%s\n", stamp(s.End))
		}
	}
	return bw.Flush()
}

// ReadTimings decodes segments written by WriteTimings. A verse line without a
// following timestamp is dropped.
func ReadTimings(r io.Reader) (Meta, []segment.Segment, error) {
	var (
		meta Meta
		segs []segment.Segment
		open *segment.Segment
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if m := metadataRe.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(strings.TrimSpace(m[2]))
			switch m[1] {
			case "ti":
				meta.Chapter = n
			case "ar":
				meta.Reciter = n
			}
			continue
		}

		loc := timestampRe.FindStringSubmatchIndex(line)
		if loc == nil || loc[0] != 0 {
			continue
		}
		at, err := parseTimestamp(line[:loc[1]])
		if err != nil {
			return meta, nil, err
		}
		if open != nil {
			open.End = at
			segs = append(segs, *open)
			open = nil
		}

		text := strings.TrimSpace(line[loc[1]:])
		if text == "" {
			continue
		}
		verse, err := strconv.Atoi(text)
		if err != nil {
			return meta, nil, fmt.Errorf("verse number %q: %w", text, err)
		}
		open = &segment.Segment{Verse: verse, Start: at}
	}
	if err := scanner.Err(); err != nil {
		return meta, nil, err
	}
	return meta, segs, nil
}

// SaveTimings writes a timings file atomically.
func SaveTimings(path string, meta Meta, segs []segment.Segment) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".timings-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := WriteTimings(tmp, meta, segs); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadTimings reads a timings file.
func LoadTimings(path string) ([]segment.Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	_, segs, err := ReadTimings(f)
	return segs, err
}

func stamp(seconds float64) string {
	ms := int64(math.Round(max(seconds, 0) * 1000))
	return fmt.Sprintf("[%02d:%02d.%03d]", ms/60000, ms/1000%60, ms%1000)
}

// parseTimestamp parses [mm:ss.xx] or [mm:ss.xxx] into seconds.
func parseTimestamp(s string) (float64, error) {
	m := timestampRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, err
	}
	var millis int
	if m[3] != "" {
		millis, err = strconv.Atoi(m[3])
		if err != nil {
			return 0, err
		}
		// centiseconds
		if len(m[3]) == 2 {
			millis *= 10
		}
	}
	return float64(minutes*60+seconds) + float64(millis)/1000, nil
}
