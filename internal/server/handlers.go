package server

import (
	"encoding/json"
	"net/http"

	"github.com/phuslu/log"
)

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer"`
	Error    string `json:"error,omitempty"`
}

// handleAsk handles POST /api/ask-legal-question. The caller only ever sees
// the documented response shapes; internal failure detail stays in the log.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("failed to decode ask request")
		req.Question = ""
	}

	if req.Question == "" {
		writeJSON(w, http.StatusBadRequest, askResponse{
			Error:  "No question provided",
			Answer: "Please ask a specific legal question.",
		})
		return
	}

	log.Info().Int("question_length", len(req.Question)).Msg("processing legal question")

	answer, err := s.pipeline.Answer(r.Context(), req.Question)
	if err != nil {
		log.Error().Err(err).Msg("failed to process question")
		writeJSON(w, http.StatusInternalServerError, askResponse{
			Error:  "An error occurred while processing your question",
			Answer: "Sorry, I encountered an error. Please try again.",
		})
		return
	}

	writeJSON(w, http.StatusOK, askResponse{
		Question: req.Question,
		Answer:   answer,
	})
}

// handleStats handles GET /api/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := s.pipeline.Stats(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to collect stats")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "An error occurred while collecting statistics",
		})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
