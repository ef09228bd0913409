package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"admissions-platform/internal/models"
)

func (s *Server) getAgentConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.matcher.AgentConfig(r.Context(), mux.Vars(r)["studentId"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// putAgentConfig stores the config, filling unset lists and interval from the defaults.
func (s *Server) putAgentConfig(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]
	var cfg models.AgentConfig
	if err := s.decode(r, &cfg); err != nil {
		s.writeError(w, r, err)
		return
	}

	defaults := models.DefaultAgentConfig(studentID)
	cfg.StudentID = studentID
	if cfg.DigestIntervalMinutes == 0 {
		cfg.DigestIntervalMinutes = defaults.DigestIntervalMinutes
	}
	if len(cfg.Channels) == 0 {
		cfg.Channels = defaults.Channels
	}
	if len(cfg.Focus) == 0 {
		cfg.Focus = defaults.Focus
	}

	if err := s.store.AgentConfigs.Upsert(r.Context(), &cfg); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &cfg)
}
