package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/docsum/internal/export"
	"github.com/dgallion1/docsum/internal/llm"
	"github.com/dgallion1/docsum/internal/pipeline"
	"github.com/dgallion1/docsum/internal/summarize"
)

// summarizeRequest carries optional overrides of the configured defaults.
type summarizeRequest struct {
	Style        string `json:"style"`
	Language     string `json:"language"`
	ChunkSize    *int   `json:"chunk_size"`
	ChunkOverlap *int   `json:"chunk_overlap"`
}

func (req summarizeRequest) settings(defaults summarize.Settings) (summarize.Settings, error) {
	out := defaults
	if req.Style != "" {
		style, err := summarize.ParseStyle(req.Style)
		if err != nil {
			return out, err
		}
		out.Style = style
	}
	if req.Language != "" {
		lang, err := summarize.ParseLanguage(req.Language)
		if err != nil {
			return out, err
		}
		out.Language = lang
	}
	if req.ChunkSize != nil {
		out.ChunkSize = *req.ChunkSize
	}
	if req.ChunkOverlap != nil {
		out.ChunkOverlap = *req.ChunkOverlap
	}
	return out, out.Validate()
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	// An empty body runs with the configured defaults.
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	settings, err := req.settings(s.orchestrator.DefaultSettings())
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.orchestrator.Submit(session, settings); err != nil {
		switch {
		case errors.Is(err, pipeline.ErrRunInProgress):
			jsonError(w, err.Error(), http.StatusConflict)
		case errors.Is(err, llm.ErrClientAuth), errors.Is(err, pipeline.ErrQueueFull),
			errors.Is(err, pipeline.ErrPipelineStopped):
			jsonError(w, err.Error(), http.StatusServiceUnavailable)
		default:
			jsonError(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"session_id": session.ID,
		"status":     session.Status(),
		"settings":   settings,
		"poll_url":   fmt.Sprintf("/api/sessions/%s", session.ID),
	})
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	answer, err := s.orchestrator.Ask(r.Context(), session, req.Question)
	if err != nil {
		s.log.Warn("question failed", "session_id", session.ID, "error", err)
		switch {
		case errors.Is(err, pipeline.ErrNoDocument):
			jsonError(w, err.Error(), http.StatusConflict)
		case errors.Is(err, llm.ErrClientAuth):
			jsonError(w, err.Error(), http.StatusServiceUnavailable)
		default:
			jsonError(w, "Error generating answer: "+err.Error(), http.StatusBadGateway)
		}
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	format, err := export.ForFormat(chi.URLParam(r, "format"))
	if err != nil {
		jsonError(w, fmt.Sprintf("unsupported format, use one of: %s", strings.Join(export.Formats(), ", ")), http.StatusNotFound)
		return
	}

	summary, err := session.FinalSummary()
	if err != nil {
		jsonError(w, err.Error(), http.StatusConflict)
		return
	}

	data, err := format.Render(summary)
	if err != nil {
		s.log.Error("export failed", "session_id", session.ID, "format", format.Name, "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
