// Package api serves the JSON HTTP API.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/llehouerou/tartil/internal/health"
	"github.com/llehouerou/tartil/internal/observe"
	"github.com/llehouerou/tartil/internal/quran"
	"github.com/llehouerou/tartil/internal/recitation"
	"github.com/llehouerou/tartil/internal/recitation/stt"
	"github.com/llehouerou/tartil/internal/search"
	"github.com/llehouerou/tartil/internal/store"
	"github.com/llehouerou/tartil/internal/translit"
)

// Content is the Quran content source.
type Content interface {
	Chapters(ctx context.Context) ([]quran.Chapter, error)
	Chapter(ctx context.Context, id int) (quran.Chapter, error)
	Verses(ctx context.Context, chapter int) ([]quran.Verse, error)
	Reciters(ctx context.Context) ([]quran.Reciter, error)
	ChapterRecitation(ctx context.Context, reciter, chapter int) (quran.Recitation, error)
	Invalidate(ctx context.Context, prefix string) error
}

// Searcher runs full-text verse search.
type Searcher interface {
	Search(ctx context.Context, query string, page int) (search.Page, error)
}

// Transliterator transliterates the verses of a chapter.
type Transliterator interface {
	Chapter(ctx context.Context, chapter int, verses []translit.Verse) []translit.Line
}

// Judge scores recitation attempts.
type Judge interface {
	Attempt(ctx context.Context, player string, chapter, from, to int, audio stt.Audio) (recitation.Outcome, error)
	Leaderboard(ctx context.Context, chapter, limit int) ([]store.LeaderboardEntry, error)
}

// Deps are the services behind the API. Judge, Health and MetricsHandler
// may be nil, in which case their routes are not mounted.
type Deps struct {
	Content        Content
	Search         Searcher
	Translit       Transliterator
	Judge          Judge
	Health         *health.Handler
	Metrics        *observe.Metrics
	MetricsHandler http.Handler
	Logger         *slog.Logger
	DefaultReciter int
	MaxUploadBytes int64
}

const defaultMaxUpload = 25 << 20

// Server routes API requests to the services.
type Server struct {
	content        Content
	search         Searcher
	translit       Transliterator
	judge          Judge
	health         *health.Handler
	metrics        *observe.Metrics
	metricsHandler http.Handler
	log            *slog.Logger
	defaultReciter int
	maxUpload      int64
}

// New creates a server.
func New(d Deps) *Server {
	s := &Server{
		content:        d.Content,
		search:         d.Search,
		translit:       d.Translit,
		judge:          d.Judge,
		health:         d.Health,
		metrics:        d.Metrics,
		metricsHandler: d.MetricsHandler,
		log:            d.Logger,
		defaultReciter: d.DefaultReciter,
		maxUpload:      d.MaxUploadBytes,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.translit == nil {
		s.translit = translit.NewSource(nil, s.log)
	}
	if s.maxUpload <= 0 {
		s.maxUpload = defaultMaxUpload
	}
	return s
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(observe.Middleware(s.metrics, s.log, routePattern))

	if s.health != nil {
		s.health.Register(r)
	}
	if s.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", s.metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/chapters", s.listChapters)
		r.Get("/chapters/{id}", s.getChapter)
		r.Get("/chapters/{id}/verses", s.listVerses)
		r.Get("/chapters/{id}/recitation", s.getRecitation)
		r.Get("/reciters", s.listReciters)
		r.Get("/search", s.searchVerses)
		r.Get("/transliterate", s.transliterate)
		r.Post("/cache/invalidate", s.invalidateCache)
		if s.judge != nil {
			r.Post("/recitations", s.submitRecitation)
			r.Get("/leaderboard", s.leaderboard)
		}
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	return r
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		return rc.RoutePattern()
	}
	return ""
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("api shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
