package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/pallas-ai/pallas/internal/common"
	"github.com/pallas-ai/pallas/internal/interfaces"
	"github.com/pallas-ai/pallas/internal/models"
)

// AIResponseRequest is the body for POST /api/ai-response.
type AIResponseRequest struct {
	Query            string `json:"query"`
	EnableBellwether bool   `json:"enable_bellwether"`
	EnableMacro      bool   `json:"enable_macro"`
}

// AIResponseResponse carries the aggregated context and, when a narrative
// client is wired, the generated prose.
type AIResponseResponse struct {
	Context   *models.AggregatedContext `json:"context"`
	Narrative string                    `json:"narrative,omitempty"`
}

func (s *Server) handleAIResponse(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req AIResponseRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		WriteError(w, http.StatusBadRequest, "query is required")
		return
	}

	agg := s.pipeline.Answer(r.Context(), req.Query, interfaces.AnswerOptions{
		EnableBellwether: req.EnableBellwether,
		EnableMacro:      req.EnableMacro,
	})

	resp := AIResponseResponse{Context: agg}
	if s.narrative != nil {
		narrative, err := s.narrative.GenerateNarrative(r.Context(), agg)
		if err != nil {
			s.logger.Warn().Err(err).Str("request_id", agg.RequestID).Msg("narrative generation failed")
		} else {
			resp.Narrative = narrative
		}
	}

	WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetFullVersion(),
	})
}
