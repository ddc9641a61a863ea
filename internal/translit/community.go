package translit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/llehouerou/tartil/internal/cache"
	"github.com/llehouerou/tartil/internal/observe"
)

// ErrNotFound is returned when the dataset has no such chapter.
var ErrNotFound = errors.New("transliteration not found")

const upstreamName = "quran-json"

// Community fetches per-verse transliterations from the quran-json dataset.
type Community struct {
	httpClient *http.Client
	baseURL    string
	cache      cache.Cache
	ttl        time.Duration
	metrics    *observe.Metrics
}

// NewCommunity creates a dataset client. ch may be nil.
func NewCommunity(baseURL string, ch cache.Cache, ttl time.Duration, m *observe.Metrics) *Community {
	return &Community{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		cache:      ch,
		ttl:        ttl,
		metrics:    m,
	}
}

type datasetChapter struct {
	ID     int `json:"id"`
	Verses []struct {
		ID              int    `json:"id"`
		Transliteration string `json:"transliteration"`
	} `json:"verses"`
}

// Chapter returns transliterations keyed by verse number.
func (c *Community) Chapter(ctx context.Context, chapter int) (map[int]string, error) {
	key := fmt.Sprintf("translit:%d", chapter)
	return cache.Fetch(ctx, c.cache, key, c.ttl, func(ctx context.Context) (map[int]string, error) {
		start := time.Now()
		out, err := c.fetch(ctx, chapter)
		c.metrics.RecordUpstream(ctx, upstreamName, time.Since(start).Seconds(), err)
		return out, err
	})
}

func (c *Community) fetch(ctx context.Context, chapter int) (map[int]string, error) {
	reqURL := fmt.Sprintf("%s/%d.json", c.baseURL, chapter)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var body datasetChapter
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	out := make(map[int]string, len(body.Verses))
	for _, v := range body.Verses {
		if v.Transliteration != "" {
			out[v.ID] = v.Transliteration
		}
	}
	return out, nil
}

// Origin tells where a transliteration came from.
type Origin string

const (
	OriginCommunity Origin = "community"
	OriginRules     Origin = "rules"
)

// Verse is Arabic input for Source.
type Verse struct {
	Number int
	Text   string
}

// Line is a transliterated verse.
type Line struct {
	Verse  int    `json:"verse"`
	Text   string `json:"text"`
	Origin Origin `json:"origin"`
}

// Chapterer provides community transliterations for a chapter.
type Chapterer interface {
	Chapter(ctx context.Context, chapter int) (map[int]string, error)
}

// Source prefers community transliterations and falls back to the rule
// table per verse.
type Source struct {
	community Chapterer
	log       *slog.Logger
}

// NewSource creates a source. community may be nil to use rules only.
func NewSource(community Chapterer, log *slog.Logger) *Source {
	if log == nil {
		log = slog.Default()
	}
	return &Source{community: community, log: log}
}

// Chapter transliterates the given verses of a chapter.
func (s *Source) Chapter(ctx context.Context, chapter int, verses []Verse) []Line {
	var known map[int]string
	if s.community != nil {
		m, err := s.community.Chapter(ctx, chapter)
		if err != nil {
			s.log.Debug("community transliteration unavailable", "chapter", chapter, "err", err)
		}
		known = m
	}

	lines := make([]Line, len(verses))
	for i, v := range verses {
		if t, ok := known[v.Number]; ok {
			lines[i] = Line{Verse: v.Number, Text: t, Origin: OriginCommunity}
			continue
		}
		lines[i] = Line{Verse: v.Number, Text: Transliterate(v.Text), Origin: OriginRules}
	}
	return lines
}
