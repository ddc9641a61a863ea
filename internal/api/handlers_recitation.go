package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/llehouerou/tartil/internal/recitation/stt"
)

func (s *Server) submitRecitation(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, CodeTooLarge, "audio too large")
			return
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid multipart form")
		return
	}

	nums := make(map[string]int, 3)
	for _, name := range []string{"chapter", "from", "to"} {
		n, err := strconv.Atoi(strings.TrimSpace(r.FormValue(name)))
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid "+name)
			return
		}
		nums[name] = n
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "missing audio file")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "read audio: "+err.Error())
		return
	}

	audio := stt.Audio{
		Data:     data,
		MIMEType: header.Header.Get("Content-Type"),
		Language: r.FormValue("language"),
	}
	out, err := s.judge.Attempt(r.Context(), r.FormValue("player"), nums["chapter"], nums["from"], nums["to"], audio)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// LeaderboardRow is one ranked player.
type LeaderboardRow struct {
	Rank     int     `json:"rank"`
	Player   string  `json:"player"`
	Best     float64 `json:"best"`
	Attempts int     `json:"attempts"`
	LastAt   string  `json:"last_at"`
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	chapter, ok := intQuery(r, "chapter", 0)
	if !ok || chapter < 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid chapter")
		return
	}
	limit, ok := intQuery(r, "limit", 10)
	if !ok || limit < 1 || limit > 100 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "limit must be between 1 and 100")
		return
	}

	entries, err := s.judge.Leaderboard(r.Context(), chapter, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}
	rows := make([]LeaderboardRow, len(entries))
	for i, e := range entries {
		rows[i] = LeaderboardRow{
			Rank:     i + 1,
			Player:   e.Player,
			Best:     e.Best,
			Attempts: e.Attempts,
			LastAt:   e.LastAt.UTC().Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, rows)
}
