package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"promptscore/internal/config"
)

// GeminiJudge rates prompts with a Gemini model through the GenAI SDK
type GeminiJudge struct {
	client *genai.Client
	config config.JudgeConfig
	logger *zap.Logger
}

// NewGeminiJudge creates a Gemini-backed judge
func NewGeminiJudge(ctx context.Context, cfg config.JudgeConfig, logger *zap.Logger) (*GeminiJudge, error) {
	return newGeminiJudge(ctx, cfg, logger, genai.HTTPOptions{})
}

func newGeminiJudge(ctx context.Context, cfg config.JudgeConfig, logger *zap.Logger, httpOptions genai.HTTPOptions) (*GeminiJudge, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini judge")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.GeminiAPIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: httpOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiJudge{
		client: client,
		config: cfg,
		logger: logger.Named("judge.gemini"),
	}, nil
}

// Judge implements JudgmentEngine
func (j *GeminiJudge) Judge(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout())
	defer cancel()

	result, err := j.client.Models.GenerateContent(ctx,
		j.config.Model,
		genai.Text(buildJudgePrompt(prompt)),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(j.config.Temperature)),
			MaxOutputTokens: int32(j.config.MaxTokens),
		},
	)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}

	j.logger.Debug("judge responded", zap.String("model", j.config.Model), zap.Int("chars", len(text)))
	return text, nil
}
