package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"promptscore/internal/model"
	"promptscore/internal/service"
)

const maxPromptBodyBytes = 64 << 10

// MsgEmptyPrompt is returned when the request carries no prompt text
const MsgEmptyPrompt = "Please enter a prompt."

// PromptAnalyzer runs the full scoring pipeline
type PromptAnalyzer interface {
	Analyze(ctx context.Context, prompt string) *model.ScoreResult
}

// AnalyzeHandler handles prompt scoring endpoints
type AnalyzeHandler struct {
	analyzer PromptAnalyzer
	gate     *service.Gate
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(analyzer PromptAnalyzer, gate *service.Gate) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		gate:     gate,
	}
}

// Analyze handles POST /v1/analyze
// @Summary Score a prompt
// @Accept json
// @Produce json
// @Param body body model.AnalyzeRequest true "Prompt to score"
// @Success 200 {object} model.AnalyzeResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} model.AnalyzeResponse
// @Router /analyze [post]
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	prompt, ok := decodePrompt(w, r)
	if !ok {
		return
	}

	result := h.analyzer.Analyze(r.Context(), prompt)
	resp := model.NewAnalyzeResponse(result)

	if result.Status == model.StatusError {
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Validate handles POST /v1/validate, running only the local checks
func (h *AnalyzeHandler) Validate(w http.ResponseWriter, r *http.Request) {
	prompt, ok := decodePrompt(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, h.gate.Check(prompt))
}

func decodePrompt(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req model.AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPromptBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeError(w, http.StatusBadRequest, MsgEmptyPrompt)
		return "", false
	}
	return prompt, true
}
