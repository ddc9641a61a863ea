package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/llehouerou/tartil/internal/quran"
)

// Remote is the upstream full-text search.
type Remote interface {
	Search(ctx context.Context, query string, page int) (quran.SearchPage, error)
}

// Result is one verse returned by Service.Search.
type Result struct {
	VerseKey    string  `json:"verse_key"`
	Text        string  `json:"text"`
	Translation string  `json:"translation,omitempty"`
	Score       float64 `json:"score,omitempty"`
}

// Page is a page of search results.
type Page struct {
	Query      string   `json:"query"`
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	Total      int      `json:"total"`
	Source     string   `json:"source"` // "remote" or "local"
	Results    []Result `json:"results"`
}

const localPageSize = 20

// Service searches remotely and falls back to a local index when the
// upstream is unavailable.
type Service struct {
	remote Remote
	local  *VerseIndex
	log    *slog.Logger
}

// NewService creates a search service. local may be nil.
func NewService(remote Remote, local *VerseIndex, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{remote: remote, local: local, log: log}
}

// Search runs query. Page is 1-based.
func (s *Service) Search(ctx context.Context, query string, page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if normalize(query) == "" {
		return Page{Query: query, Page: page, Results: []Result{}}, nil
	}

	if s.remote != nil {
		rp, err := s.remote.Search(ctx, query, page)
		if err == nil {
			return fromRemote(query, rp), nil
		}
		if s.local == nil {
			return Page{}, fmt.Errorf("search %q: %w", query, err)
		}
		s.log.Warn("remote search failed, using local index", "query", query, "err", err)
	}
	if s.local == nil {
		return Page{}, fmt.Errorf("search %q: no search backend", query)
	}
	return s.searchLocal(query, page), nil
}

func fromRemote(query string, rp quran.SearchPage) Page {
	return Page{
		Query:      query,
		Page:       max(rp.CurrentPage, 1),
		TotalPages: rp.TotalPages,
		Total:      rp.TotalResults,
		Source:     "remote",
		Results: lo.Map(rp.Results, func(r quran.SearchResult, _ int) Result {
			out := Result{VerseKey: r.VerseKey, Text: r.Text}
			if len(r.Translations) > 0 {
				out.Translation = r.Translations[0].Text
			}
			return out
		}),
	}
}

func (s *Service) searchLocal(query string, page int) Page {
	hits := s.local.Search(query, 0)
	total := len(hits)
	pages := (total + localPageSize - 1) / localPageSize

	start := min((page-1)*localPageSize, total)
	end := min(start+localPageSize, total)

	return Page{
		Query:      query,
		Page:       page,
		TotalPages: pages,
		Total:      total,
		Source:     "local",
		Results: lo.Map(hits[start:end], func(h VerseHit, _ int) Result {
			return Result{VerseKey: h.Key(), Text: h.Arabic, Translation: h.Translation, Score: h.Score}
		}),
	}
}
