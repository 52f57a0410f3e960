package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/aatumaykin/nextrun/internal/dashboard"
	"github.com/aatumaykin/nextrun/internal/definitions"
	"github.com/aatumaykin/nextrun/internal/logger"
	"github.com/aatumaykin/nextrun/internal/schedule"
	"github.com/aatumaykin/nextrun/internal/urgency"
)

const maxUpcoming = 100

type errorResponse struct {
	Error string `json:"error"`
}

type upcomingResponse struct {
	ID              string      `json:"id"`
	Runs            []time.Time `json:"runs"`
	SearchExhausted bool        `json:"searchExhausted"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) listSchedules(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshots.Snapshot()

	if level := r.URL.Query().Get("level"); level != "" {
		filtered := make([]dashboard.Row, 0, len(snap.Rows))
		for _, row := range snap.Rows {
			if string(row.Urgency.Level) == level {
				filtered = append(filtered, row)
			}
		}
		snap.Rows = filtered
	}
	if snap.Rows == nil {
		snap.Rows = []dashboard.Row{}
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) getSchedule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	row, ok := s.snapshots.Row(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "schedule not found: "+id)
		return
	}
	s.writeJSON(w, http.StatusOK, row)
}

func (s *Server) upcoming(w http.ResponseWriter, r *http.Request) {
	if s.definitions == nil {
		s.writeError(w, http.StatusNotImplemented, "definition lookup is not configured")
		return
	}

	n := 5
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxUpcoming {
			s.writeError(w, http.StatusBadRequest, "n must be an integer between 1 and 100")
			return
		}
		n = parsed
	}

	id := mux.Vars(r)["id"]
	def, err := s.definitions.Get(id)
	if errors.Is(err, definitions.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "schedule not found: "+id)
		return
	}
	if err != nil {
		s.logger.Error("definition lookup failed", err, logger.Field{Key: "id", Value: id})
		s.writeError(w, http.StatusInternalServerError, "definition lookup failed")
		return
	}

	runs, exhausted, err := s.engine.Upcoming(def, s.clock(), n)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if runs == nil {
		runs = []time.Time{}
	}
	s.writeJSON(w, http.StatusOK, upcomingResponse{ID: id, Runs: runs, SearchExhausted: exhausted})
}

func (s *Server) asOf(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]schedule.Date{"asOf": s.snapshots.AsOf()})
}

func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshots.Snapshot()
	counts := snap.Counts()
	byLevel := make(map[urgency.Level]int, len(counts))
	for _, level := range dashboard.LevelOrder {
		byLevel[level] = counts[level]
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"schedules":   len(snap.Rows),
		"generatedAt": snap.GeneratedAt,
		"urgency":     byLevel,
	})
}
