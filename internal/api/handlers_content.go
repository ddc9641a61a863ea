package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/llehouerou/tartil/internal/quran"
	"github.com/llehouerou/tartil/internal/translit"
)

// VerseView is a verse with its transliteration.
type VerseView struct {
	Number          int    `json:"number"`
	Key             string `json:"key"`
	Text            string `json:"text"`
	Transliteration string `json:"transliteration"`
	TranslitOrigin  string `json:"transliteration_origin"`
	Translation     string `json:"translation,omitempty"`
}

func chapterParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id >= 1
}

func intQuery(r *http.Request, name string, def int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s *Server) listChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := s.content.Chapters(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chapters)
}

func (s *Server) getChapter(w http.ResponseWriter, r *http.Request) {
	id, ok := chapterParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid chapter id")
		return
	}
	ch, err := s.content.Chapter(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) listVerses(w http.ResponseWriter, r *http.Request) {
	id, ok := chapterParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid chapter id")
		return
	}
	verses, err := s.content.Verses(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	lines := s.translit.Chapter(r.Context(), id, lo.Map(verses, func(v quran.Verse, _ int) translit.Verse {
		return translit.Verse{Number: v.Number, Text: v.TextUthmani}
	}))
	views := lo.Map(verses, func(v quran.Verse, i int) VerseView {
		return VerseView{
			Number:          v.Number,
			Key:             v.Key,
			Text:            v.TextUthmani,
			Transliteration: lines[i].Text,
			TranslitOrigin:  string(lines[i].Origin),
			Translation:     v.Translation(),
		}
	})
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) getRecitation(w http.ResponseWriter, r *http.Request) {
	id, ok := chapterParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid chapter id")
		return
	}
	reciter, ok := intQuery(r, "reciter", s.defaultReciter)
	if !ok || reciter < 1 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid reciter")
		return
	}
	rec, err := s.content.ChapterRecitation(r.Context(), reciter, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) listReciters(w http.ResponseWriter, r *http.Request) {
	reciters, err := s.content.Reciters(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reciters)
}

func (s *Server) searchVerses(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "missing query parameter q")
		return
	}
	page, ok := intQuery(r, "page", 1)
	if !ok || page < 1 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid page")
		return
	}
	res, err := s.search.Search(r.Context(), q, page)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) transliterate(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "missing query parameter text")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"text":            text,
		"stripped":        translit.Strip(text),
		"transliteration": translit.Transliterate(text),
	})
}

func (s *Server) invalidateCache(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	if err := s.content.Invalidate(r.Context(), prefix); err != nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}
	s.log.Info("cache invalidated", "prefix", prefix)
	writeJSON(w, http.StatusOK, map[string]string{"prefix": prefix})
}
