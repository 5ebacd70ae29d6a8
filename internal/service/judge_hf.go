package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"promptscore/internal/config"
)

// HFJudge calls an OpenAI-compatible chat completions endpoint, by default
// the Hugging Face inference router
type HFJudge struct {
	config config.JudgeConfig
	client *http.Client
	logger *zap.Logger
}

// NewHFJudge creates a Hugging Face judge with a per-call timeout
func NewHFJudge(cfg config.JudgeConfig, logger *zap.Logger) *HFJudge {
	return &HFJudge{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout(),
		},
		logger: logger.Named("judge.hf"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error json.RawMessage `json:"error,omitempty"`
}

// Judge implements JudgmentEngine
func (j *HFJudge) Judge(ctx context.Context, prompt string) (string, error) {
	if j.config.HFToken == "" {
		return "", fmt.Errorf("HF_TOKEN is not set")
	}

	jsonBody, err := json.Marshal(chatRequest{
		Model:       j.config.Model,
		Messages:    []chatMessage{{Role: "user", Content: buildJudgePrompt(prompt)}},
		Temperature: j.config.Temperature,
		MaxTokens:   j.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(j.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+j.config.HFToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := j.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("judge request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("judge returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 && len(chatResp.Error) > 0 && string(chatResp.Error) != "null" {
		return "", fmt.Errorf("judge returned error: %s", truncate(string(chatResp.Error), 200))
	}
	if len(chatResp.Choices) == 0 || strings.TrimSpace(chatResp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty response from judge model %s", j.config.Model)
	}

	content := chatResp.Choices[0].Message.Content
	j.logger.Debug("judge responded", zap.String("model", j.config.Model), zap.Int("chars", len(content)))
	return content, nil
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
