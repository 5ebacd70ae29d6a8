package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"promptscore/internal/config"
)

// JudgmentEngine asks an LLM to rate a prompt and returns its raw answer.
// Errors are not swallowed; the pipeline reports them as an ERROR status.
type JudgmentEngine interface {
	Judge(ctx context.Context, prompt string) (string, error)
}

// NewJudgmentEngine selects the provider named in cfg
func NewJudgmentEngine(ctx context.Context, cfg config.JudgeConfig, logger *zap.Logger) (JudgmentEngine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Provider {
	case config.ProviderHuggingFace, "":
		return NewHFJudge(cfg, logger), nil
	case config.ProviderGemini:
		return NewGeminiJudge(ctx, cfg, logger)
	case config.ProviderMock:
		logger.Warn("using mock judgment engine; scores are not model-generated")
		return NewMockJudge(), nil
	default:
		return nil, fmt.Errorf("unknown judge provider %q", cfg.Provider)
	}
}

// judgePromptTemplate is sent verbatim apart from the user's text. Trailing
// spaces on the intent lines are part of it.
const judgePromptTemplate = "\n" +
	"You are a Master Prompt Engineer. Rate this prompt on 7 metrics (0-100).\n" +
	"\n" +
	"INPUT PROMPT: \"{user_prompt}\"\n" +
	"\n" +
	"SCORING GUIDELINES:\n" +
	"1. Intent Strength: \n" +
	"   - 100 = Explicit instruction (\"Act as...\", \"Write a...\", \"Fix code...\", \"Imagine...\"). \n" +
	"   - 0 = Pure content (Poem, Story, Statement) with NO request.\n" +
	"\n" +
	"2. Clarity: Is the goal unambiguous?\n" +
	"3. Specificity: detailed vs vague?\n" +
	"4. Context: Is background provided?\n" +
	"5. Constraints: Are limits defined?\n" +
	"6. Complexity: Does it require reasoning?\n" +
	"7. Role Definition: Does it assign a persona? (e.g. \"Act as an expert\").\n" +
	"\n" +
	"OUTPUT FORMAT (Strictly Numbers Only):\n" +
	"Intent_Strength: [Score]\n" +
	"Clarity: [Score]\n" +
	"Specificity: [Score]\n" +
	"Context: [Score]\n" +
	"Constraints: [Score]\n" +
	"Complexity: [Score]\n" +
	"Role_Definition: [Score]\n"

// buildJudgePrompt renders the rating instructions around the user's prompt
func buildJudgePrompt(userPrompt string) string {
	return strings.Replace(judgePromptTemplate, "{user_prompt}", userPrompt, 1)
}
