package model

// AnalyzeRequest is the body of POST /v1/analyze and of WebSocket frames
type AnalyzeRequest struct {
	Prompt string `json:"prompt"`
}

// AnalyzeResponse is the JSON envelope returned to callers
type AnalyzeResponse struct {
	Success        bool               `json:"success"`
	ID             string             `json:"id,omitempty"`
	FinalScore     float64            `json:"final_score"`
	BertScore      float64            `json:"bert_score"`
	LLMScore       float64            `json:"llm_score"`
	Status         Status             `json:"status"`
	Msg            string             `json:"msg,omitempty"`
	Error          string             `json:"error,omitempty"`
	Metrics        map[string]float64 `json:"metrics,omitempty"`
	MissingMetrics []MetricName       `json:"missing_metrics,omitempty"`
}

// NewAnalyzeResponse shapes a pipeline result for the wire. Rejected results
// report llm_score as 0; errors carry the message in the error field.
func NewAnalyzeResponse(result *ScoreResult) *AnalyzeResponse {
	resp := &AnalyzeResponse{
		Success:    result.Status != StatusError,
		ID:         result.ID,
		FinalScore: result.FinalScore,
		BertScore:  result.BertScore,
		LLMScore:   result.LLMScore,
		Status:     result.Status,
	}

	switch result.Status {
	case StatusRejected:
		resp.LLMScore = 0
		resp.Msg = result.Msg
	case StatusError:
		resp.Error = result.Msg
		return resp
	}

	if len(result.Metrics) > 0 {
		resp.Metrics = result.Metrics.Values()
		resp.MissingMetrics = result.Metrics.Missing()
	}
	return resp
}
