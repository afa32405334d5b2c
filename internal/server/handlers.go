package server

import (
	"encoding/json"
	"net/http"

	"github.com/roach88/eventlog/internal/clock"
	"github.com/roach88/eventlog/internal/store"
)

type statusResponse struct {
	Status string `json:"status"`
}

type addResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

// handleHome handles GET /.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if err := s.store.EnsureSchema(r.Context()); err != nil {
		s.storageError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: Greeting})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.EnsureSchema(r.Context()); err != nil {
		s.storageError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// handleAdd handles GET /add?message=.
func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	if message == "" {
		message = store.DefaultMessage
	}
	ts := clock.Timestamp(s.clock.Now())

	e, err := s.store.Append(r.Context(), ts, message)
	if err != nil {
		s.storageError(w, r, err)
		return
	}

	s.logger.Debug("event added", "id", e.ID, "request_id", RequestID(r.Context()))
	writeJSON(w, http.StatusOK, addResponse{
		Status:    "added",
		Timestamp: e.Timestamp,
		Message:   e.Message,
	})
}

// handleConsultation handles GET /consultation.
func (s *Server) handleConsultation(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.Recent(r.Context(), s.listLimit)
	if err != nil {
		s.storageError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// handleCount handles GET /count.
func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Count(r.Context())
	if err != nil {
		s.storageError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

// handleStatus handles GET /status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.prober.Probe(r.Context()))
}

func (s *Server) storageError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("storage error",
		"path", r.URL.Path,
		"request_id", RequestID(r.Context()),
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, err.Error())
}

// writeJSON writes data as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
