package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/llehouerou/tartil/internal/quran"
	"github.com/llehouerou/tartil/internal/recitation"
	"github.com/llehouerou/tartil/internal/recitation/stt"
	"github.com/llehouerou/tartil/internal/resilience"
)

// Response is the envelope of every API answer.
type Response struct {
	Status string     `json:"status"`
	Data   any        `json:"data,omitempty"`
	Error  *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeNotFound      = "NOT_FOUND"
	CodeUpstream      = "UPSTREAM_ERROR"
	CodeUnavailable   = "UNAVAILABLE"
	CodeInternal      = "INTERNAL"
	CodeTooLarge      = "PAYLOAD_TOO_LARGE"
	statusClientClose = 499
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Status: "ok", Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{
		Status: "error",
		Error:  &ErrorBody{Code: code, Message: message},
	})
}

// classify maps a service error to its HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, quran.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, recitation.ErrInvalidRange),
		errors.Is(err, recitation.ErrInvalidPlayer),
		errors.Is(err, stt.ErrEmptyAudio):
		return http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, recitation.ErrSaveAttempt):
		return http.StatusInternalServerError, CodeInternal
	case errors.Is(err, stt.ErrNoProviders):
		return http.StatusServiceUnavailable, CodeUnavailable
	case errors.Is(err, resilience.ErrCircuitOpen):
		return http.StatusBadGateway, CodeUpstream
	case errors.Is(err, context.Canceled):
		return statusClientClose, CodeUpstream
	default:
		return http.StatusBadGateway, CodeUpstream
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.WarnContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, status, code, err.Error())
}
