package api

import (
	"net/http"

	"github.com/dgallion1/docsum/internal/export"
	"github.com/dgallion1/docsum/internal/summarize"
)

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.guard == nil || s.guard.Stats == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"model":     s.guard.Model(),
		"available": s.guard.Available(),
		"stats":     s.guard.Stats.Snapshot(),
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"options":  summarize.AvailableOptions(),
		"defaults": s.orchestrator.DefaultSettings(),
		"formats":  export.Formats(),
	})
}
