package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/poiesic/agroqa/core"
)

// ErrServiceRequired is returned when a server is constructed without a
// service.
var ErrServiceRequired = errors.New("service required")

type askRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

type askResponse struct {
	Question string        `json:"question"`
	Results  []core.Result `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	results, err := s.service.Ask(r.Context(), req.Question, req.TopK)
	if err != nil {
		s.writeAskError(w, err)
		return
	}
	if results == nil {
		results = []core.Result{}
	}

	writeJSON(w, http.StatusOK, askResponse{Question: req.Question, Results: results})
}

// writeAskError maps pipeline failures onto HTTP statuses: client mistakes
// are 400, missing artifacts or an unreachable encoder disable the endpoint
// with 503 rather than crashing anything.
func (s *Server) writeAskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrEmptyQuestion):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrArtifactMissing), errors.Is(err, core.ErrEncoderUnavailable):
		s.logger.Error("ask unavailable", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("ask failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.Reload()
	if err != nil {
		s.logger.Error("reload failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, ok := s.service.Metrics()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "metrics not available"})
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(metrics)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Header already sent; nothing left to do.
		return
	}
}
