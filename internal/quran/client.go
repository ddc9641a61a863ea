// Package quran provides a client for the Quran Foundation content API.
package quran

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/llehouerou/tartil/internal/cache"
	"github.com/llehouerou/tartil/internal/config"
	"github.com/llehouerou/tartil/internal/observe"
	"github.com/llehouerou/tartil/internal/resilience"
	"github.com/llehouerou/tartil/internal/segment"
)

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("quran: not found")

const (
	userAgent    = "tartil/1.0 (https://github.com/llehouerou/tartil)"
	versesPerReq = 50
	cachePrefix  = "quran:"
	upstreamName = "quran"
)

// StatusError is returned for non-2xx answers other than 404.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("quran: %s: unexpected status %d", e.URL, e.Code)
}

// TTL holds per-endpoint cache lifetimes.
type TTL struct {
	Chapters time.Duration
	Verses   time.Duration
	Search   time.Duration
	Reciters time.Duration
}

// TTLFromConfig maps cache settings to client TTLs.
func TTLFromConfig(c config.CacheConfig) TTL {
	return TTL{
		Chapters: c.ChaptersTTL(),
		Verses:   c.VersesTTL(),
		Search:   c.SearchTTL(),
		Reciters: c.ReciterTTL(),
	}
}

// Client is a Quran content API client. It is safe for concurrent use.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	clientID      string
	tokens        oauth2.TokenSource
	language      string
	translationID int

	cache   cache.Cache
	ttl     TTL
	breaker *resilience.CircuitBreaker
	metrics *observe.Metrics
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for content and token calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCache caches responses in ch with the given lifetimes.
func WithCache(ch cache.Cache, ttl TTL) Option {
	return func(c *Client) {
		c.cache = ch
		c.ttl = ttl
	}
}

// WithMetrics records upstream calls and cache lookups.
func WithMetrics(m *observe.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithBreaker replaces the default circuit breaker.
func WithBreaker(b *resilience.CircuitBreaker) Option {
	return func(c *Client) { c.breaker = b }
}

// New creates a client. Without credentials in cfg, requests go
// unauthenticated to cfg.BaseURL.
func New(cfg config.QuranConfig, opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout()},
		baseURL:       cfg.BaseURL,
		clientID:      cfg.ClientID,
		language:      cfg.Language,
		translationID: cfg.TranslationID,
		log:           slog.Default(),
	}
	if c.httpClient.Timeout <= 0 {
		c.httpClient.Timeout = 15 * time.Second
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = resilience.NewCircuitBreaker(resilience.BreakerConfig{
			Name:      upstreamName,
			IsFailure: countsAgainstBreaker,
			Logger:    c.log,
		})
	}
	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       []string{"content"},
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
		// The token is reused until it expires.
		c.tokens = cc.TokenSource(ctx)
	}
	return c
}

// Authenticated reports whether requests carry client credentials.
func (c *Client) Authenticated() bool {
	return c.tokens != nil
}

func countsAgainstBreaker(err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) && se.Code < 500 && se.Code != http.StatusTooManyRequests {
		return false
	}
	return true
}

// get fetches path relative to the base URL and decodes the JSON body.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	start := time.Now()
	err := c.breaker.Execute(func() error {
		return c.do(ctx, reqURL, out)
	})
	c.metrics.RecordUpstream(ctx, upstreamName, time.Since(start).Seconds(), err)
	if err != nil {
		c.log.Debug("quran request failed", "url", reqURL, "err", err)
	}
	return err
}

func (c *Client) do(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("fetch token: %w", err)
		}
		req.Header.Set("x-auth-token", tok.AccessToken)
		req.Header.Set("x-client-id", c.clientID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, URL: reqURL}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// cached wraps load with a cache lookup and records the outcome.
func cached[T any](ctx context.Context, c *Client, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if c.cache == nil {
		return load(ctx)
	}
	key = cachePrefix + key
	if v, ok, err := cache.GetJSON[T](ctx, c.cache, key); err == nil && ok {
		c.metrics.RecordCache(ctx, true)
		return v, nil
	}
	c.metrics.RecordCache(ctx, false)
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := cache.SetJSON(ctx, c.cache, key, v, ttl); err != nil {
		c.log.Warn("cache write failed", "key", key, "err", err)
	}
	return v, nil
}

// Invalidate drops cached responses whose key starts with prefix
// ("" drops everything this client cached).
func (c *Client) Invalidate(ctx context.Context, prefix string) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.InvalidatePrefix(ctx, cachePrefix+prefix)
}

// Chapters lists all 114 chapters.
func (c *Client) Chapters(ctx context.Context) ([]Chapter, error) {
	return cached(ctx, c, "chapters:"+c.language, c.ttl.Chapters, func(ctx context.Context) ([]Chapter, error) {
		var body struct {
			Chapters []Chapter `json:"chapters"`
		}
		params := url.Values{"language": {c.language}}
		if err := c.get(ctx, "/chapters", params, &body); err != nil {
			return nil, fmt.Errorf("list chapters: %w", err)
		}
		return body.Chapters, nil
	})
}

// Chapter fetches one chapter.
func (c *Client) Chapter(ctx context.Context, id int) (Chapter, error) {
	if id < 1 || id > 114 {
		return Chapter{}, fmt.Errorf("chapter %d: %w", id, ErrNotFound)
	}
	key := fmt.Sprintf("chapter:%d:%s", id, c.language)
	return cached(ctx, c, key, c.ttl.Chapters, func(ctx context.Context) (Chapter, error) {
		var body struct {
			Chapter Chapter `json:"chapter"`
		}
		params := url.Values{"language": {c.language}}
		if err := c.get(ctx, "/chapters/"+strconv.Itoa(id), params, &body); err != nil {
			return Chapter{}, fmt.Errorf("get chapter %d: %w", id, err)
		}
		return body.Chapter, nil
	})
}

// Verses fetches every verse of a chapter, following pagination.
func (c *Client) Verses(ctx context.Context, chapter int) ([]Verse, error) {
	if chapter < 1 || chapter > 114 {
		return nil, fmt.Errorf("chapter %d: %w", chapter, ErrNotFound)
	}
	key := fmt.Sprintf("verses:%d:%d:%s", chapter, c.translationID, c.language)
	return cached(ctx, c, key, c.ttl.Verses, func(ctx context.Context) ([]Verse, error) {
		var verses []Verse
		for page := 1; ; page++ {
			var body struct {
				Verses     []Verse `json:"verses"`
				Pagination struct {
					CurrentPage int  `json:"current_page"`
					NextPage    *int `json:"next_page"`
					TotalPages  int  `json:"total_pages"`
				} `json:"pagination"`
			}
			params := url.Values{
				"language":     {c.language},
				"words":        {"false"},
				"fields":       {"text_uthmani"},
				"translations": {strconv.Itoa(c.translationID)},
				"page":         {strconv.Itoa(page)},
				"per_page":     {strconv.Itoa(versesPerReq)},
			}
			path := "/verses/by_chapter/" + strconv.Itoa(chapter)
			if err := c.get(ctx, path, params, &body); err != nil {
				return nil, fmt.Errorf("get verses of chapter %d: %w", chapter, err)
			}
			verses = append(verses, body.Verses...)
			if body.Pagination.NextPage == nil || len(body.Verses) == 0 || page >= body.Pagination.TotalPages {
				break
			}
		}
		return verses, nil
	})
}

// Search runs a remote full-text search. Page is 1-based.
func (c *Client) Search(ctx context.Context, query string, page int) (SearchPage, error) {
	if page < 1 {
		page = 1
	}
	key := fmt.Sprintf("search:%s:%d:%s", c.language, page, query)
	return cached(ctx, c, key, c.ttl.Search, func(ctx context.Context) (SearchPage, error) {
		var body struct {
			Search SearchPage `json:"search"`
		}
		params := url.Values{
			"q":        {query},
			"page":     {strconv.Itoa(page)},
			"size":     {"20"},
			"language": {c.language},
		}
		if err := c.get(ctx, "/search", params, &body); err != nil {
			return SearchPage{}, fmt.Errorf("search %q: %w", query, err)
		}
		return body.Search, nil
	})
}

// Reciters lists available chapter recitations.
func (c *Client) Reciters(ctx context.Context) ([]Reciter, error) {
	return cached(ctx, c, "reciters:"+c.language, c.ttl.Reciters, func(ctx context.Context) ([]Reciter, error) {
		var body struct {
			Recitations []Reciter `json:"recitations"`
		}
		params := url.Values{"language": {c.language}}
		if err := c.get(ctx, "/resources/recitations", params, &body); err != nil {
			return nil, fmt.Errorf("list reciters: %w", err)
		}
		return body.Recitations, nil
	})
}

type timestamp struct {
	VerseKey string  `json:"verse_key"`
	From     float64 `json:"timestamp_from"`
	To       float64 `json:"timestamp_to"`
}

// ChapterRecitation fetches a reciter's chapter audio with verse timings.
func (c *Client) ChapterRecitation(ctx context.Context, reciter, chapter int) (Recitation, error) {
	if chapter < 1 || chapter > 114 {
		return Recitation{}, fmt.Errorf("chapter %d: %w", chapter, ErrNotFound)
	}
	key := fmt.Sprintf("recitation:%d:%d", reciter, chapter)
	return cached(ctx, c, key, c.ttl.Reciters, func(ctx context.Context) (Recitation, error) {
		var body struct {
			AudioFile struct {
				AudioURL     string      `json:"audio_url"`
				Format       string      `json:"format"`
				Timestamps   []timestamp `json:"timestamps"`
				VerseTimings []timestamp `json:"verse_timings"`
			} `json:"audio_file"`
		}
		path := fmt.Sprintf("/chapter_recitations/%d/%d", reciter, chapter)
		params := url.Values{"segments": {"true"}}
		if err := c.get(ctx, path, params, &body); err != nil {
			return Recitation{}, fmt.Errorf("get recitation %d of chapter %d: %w", reciter, chapter, err)
		}
		af := body.AudioFile
		if af.AudioURL == "" {
			return Recitation{}, fmt.Errorf("recitation %d of chapter %d: %w", reciter, chapter, ErrNotFound)
		}
		ts := af.Timestamps
		if len(ts) == 0 {
			ts = af.VerseTimings
		}
		segs, err := toSegments(ts)
		if err != nil {
			return Recitation{}, err
		}
		return Recitation{
			ReciterID: reciter,
			Chapter:   chapter,
			AudioURL:  af.AudioURL,
			Format:    af.Format,
			Segments:  segs,
		}, nil
	})
}

// toSegments converts millisecond timestamps to second-based segments.
func toSegments(ts []timestamp) ([]segment.Segment, error) {
	segs := make([]segment.Segment, 0, len(ts))
	for _, t := range ts {
		_, verse, err := ParseVerseKey(t.VerseKey)
		if err != nil {
			return nil, err
		}
		segs = append(segs, segment.Segment{
			Verse: verse,
			Start: t.From / 1000,
			End:   t.To / 1000,
		})
	}
	return segs, nil
}
