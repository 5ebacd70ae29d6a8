package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"promptscore/internal/app"
	"promptscore/internal/config"
	"promptscore/internal/logging"
	"promptscore/internal/model"
	"promptscore/internal/service"
)

var (
	// Global flags
	verbose  bool
	provider string
	noLang   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "promptscore",
		Short: "Score prompt quality from the command line",
		Long: `promptscore runs the prompt scoring pipeline locally.

It reads the same environment (and .env file) as the server: SCORER_URL,
JUDGE_PROVIDER, HF_TOKEN, GEMINI_API_KEY and friends.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress to stderr")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "judge provider override (huggingface, gemini, mock)")
	rootCmd.PersistentFlags().BoolVar(&noLang, "no-language-check", false, "skip language detection in the gate")

	rootCmd.AddCommand(newAnalyzeCmd(), newGateCmd())
	return rootCmd
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [prompt]",
		Short: "Run the full pipeline and print the result as JSON",
		Example: `  promptscore analyze "Act as a historian and explain the fall of Rome in 200 words"
  echo "Write a haiku about the ocean" | promptscore analyze --provider mock`,
		RunE: runAnalyze,
	}
}

func newGateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gate [prompt]",
		Short: "Run only the local heuristic checks",
		RunE:  runGate,
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	prompt, err := readPrompt(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	logger, err := buildLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	result := application.Pipeline.Analyze(ctx, prompt)
	if err := printJSON(cmd.OutOrStdout(), model.NewAnalyzeResponse(result)); err != nil {
		return err
	}
	if result.Status == model.StatusError {
		return fmt.Errorf("analysis failed: %s", result.Msg)
	}
	return nil
}

func runGate(cmd *cobra.Command, args []string) error {
	prompt, err := readPrompt(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	var languages service.LanguageDetector
	if cfg.LanguageCheck {
		languages = service.NewLinguaDetector()
	}

	return printJSON(cmd.OutOrStdout(), service.NewGate(languages).Check(prompt))
}

func loadConfig() *config.Config {
	cfg := config.Load()
	if provider != "" {
		cfg.Judge.Provider = strings.ToLower(provider)
		if cfg.Judge.Provider == config.ProviderGemini && cfg.Judge.Model == config.DefaultJudgeModel {
			cfg.Judge.Model = config.DefaultGeminiModel
		}
	}
	if noLang {
		cfg.LanguageCheck = false
	}
	return cfg
}

func buildLogger() (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return logging.New("debug")
}

// readPrompt joins the arguments, or reads stdin when there are none
func readPrompt(stdin io.Reader, args []string) (string, error) {
	prompt := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		prompt = string(data)
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("Please enter a prompt.")
	}
	return prompt, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
