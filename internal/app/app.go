package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"promptscore/internal/config"
	"promptscore/internal/service"
)

// App holds the long-lived components shared by the server and the CLI
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *service.Metrics
	Pipeline *service.Pipeline
	Auth     *service.AuthService
}

// New wires the pipeline from cfg
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := service.NewMetrics(registry)

	var languages service.LanguageDetector
	if cfg.LanguageCheck {
		languages = service.NewLinguaDetector()
	}

	judge, err := service.NewJudgmentEngine(ctx, cfg.Judge, logger)
	if err != nil {
		return nil, fmt.Errorf("judgment engine: %w", err)
	}

	scorer := service.NewRemoteScorer(cfg.Scorer, logger, metrics)
	pipeline := service.NewPipeline(service.NewGate(languages), scorer, judge, logger, metrics)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Metrics:  metrics,
		Pipeline: pipeline,
		Auth:     service.NewAuthService(cfg.Auth),
	}, nil
}

// LogSettings writes the effective configuration, without secrets
func (a *App) LogSettings() {
	cfg := a.Config
	a.Logger.Info("configuration",
		zap.String("scorer_url", cfg.Scorer.URL),
		zap.Duration("scorer_timeout", cfg.Scorer.Timeout()),
		zap.String("judge_provider", cfg.Judge.Provider),
		zap.String("judge_model", cfg.Judge.Model),
		zap.Float64("judge_temperature", cfg.Judge.Temperature),
		zap.Int("judge_max_tokens", cfg.Judge.MaxTokens),
		zap.Duration("judge_timeout", cfg.Judge.Timeout()),
		zap.Bool("language_check", cfg.LanguageCheck),
		zap.Bool("auth_enabled", cfg.Auth.Enabled()))

	if !cfg.Judge.HasCredentials() {
		a.Logger.Warn("judge credential not set; every analysis that passes the gate will end in ERROR",
			zap.String("provider", cfg.Judge.Provider))
	}
}
