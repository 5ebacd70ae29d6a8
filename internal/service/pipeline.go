package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"promptscore/internal/logging"
	"promptscore/internal/model"
)

// Stage names a step of one analysis
type Stage string

const (
	StageGate        Stage = "gate"
	StageRemoteScore Stage = "remote_score"
	StageRemoteJudge Stage = "remote_judge"
	StageExtract     Stage = "extract"
	StageFusion      Stage = "fusion"
)

// Stage states reported to observers
const (
	StateStarted  = "started"
	StateDone     = "done"
	StateRejected = "rejected"
	StateFailed   = "failed"
)

// StageEvent reports a stage transition
type StageEvent struct {
	AnalysisID string `json:"analysisId"`
	Stage      Stage  `json:"stage"`
	State      string `json:"state"`
	Detail     string `json:"detail,omitempty"`
}

// StageObserver receives stage events. Calls for one analysis are serialized.
type StageObserver func(StageEvent)

// Pipeline scores prompts: gate, then classifier and judge, then fusion.
// It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	gate    *Gate
	scorer  QualityScorer
	judge   JudgmentEngine
	logger  *zap.Logger
	metrics *Metrics
}

// NewPipeline wires the pipeline stages
func NewPipeline(gate *Gate, scorer QualityScorer, judge JudgmentEngine, logger *zap.Logger, metrics *Metrics) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		gate:    gate,
		scorer:  scorer,
		judge:   judge,
		logger:  logger.Named("pipeline"),
		metrics: metrics,
	}
}

// Gate exposes the local checks for callers that only need validation
func (p *Pipeline) Gate() *Gate {
	return p.gate
}

// Analyze scores a prompt
func (p *Pipeline) Analyze(ctx context.Context, prompt string) *model.ScoreResult {
	return p.AnalyzeObserved(ctx, prompt, nil)
}

// AnalyzeObserved scores a prompt and reports each stage transition to observe
func (p *Pipeline) AnalyzeObserved(ctx context.Context, prompt string, observe StageObserver) *model.ScoreResult {
	id := uuid.NewString()
	logger := p.logger.With(append(logging.ContextFields(ctx), zap.String("analysis_id", id))...)
	logger.Info("received prompt", zap.String("preview", preview(prompt, 30)))

	var mu sync.Mutex
	emit := func(stage Stage, state, detail string) {
		if observe == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		observe(StageEvent{AnalysisID: id, Stage: stage, State: state, Detail: detail})
	}

	result := p.run(ctx, id, prompt, logger, emit)
	p.metrics.observeResult(result)

	logger.Info("analysis finished",
		zap.String("status", string(result.Status)),
		zap.Float64("final_score", result.FinalScore),
		zap.Float64("bert_score", result.BertScore),
		zap.Float64("llm_score", result.LLMScore))
	return result
}

func (p *Pipeline) run(ctx context.Context, id, prompt string, logger *zap.Logger, emit func(Stage, string, string)) *model.ScoreResult {
	emit(StageGate, StateStarted, "")
	started := time.Now()
	check := p.gate.Check(prompt)
	p.metrics.observeStage(StageGate, started)
	if !check.Valid {
		emit(StageGate, StateRejected, check.Reason)
		logger.Info("prompt rejected by gate", zap.String("reason", check.Reason))
		return &model.ScoreResult{ID: id, Status: model.StatusRejected, Msg: check.Reason}
	}
	emit(StageGate, StateDone, check.Reason)

	// The classifier and the judge are independent; both must finish before fusion.
	var (
		bertScore float64
		judgment  string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		emit(StageRemoteScore, StateStarted, "")
		started := time.Now()
		bertScore = p.scorer.Score(gctx, prompt)
		p.metrics.observeStage(StageRemoteScore, started)
		emit(StageRemoteScore, StateDone, "")
		return nil
	})
	g.Go(func() error {
		emit(StageRemoteJudge, StateStarted, "")
		started := time.Now()
		out, err := p.judge.Judge(gctx, prompt)
		p.metrics.observeStage(StageRemoteJudge, started)
		if err != nil {
			emit(StageRemoteJudge, StateFailed, err.Error())
			return err
		}
		judgment = out
		emit(StageRemoteJudge, StateDone, "")
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Error("judgment engine failed", zap.Error(err))
		return &model.ScoreResult{ID: id, Status: model.StatusError, Msg: err.Error()}
	}

	emit(StageExtract, StateStarted, "")
	started = time.Now()
	metrics := ExtractMetrics(judgment)
	p.metrics.observeStage(StageExtract, started)
	if missing := metrics.Missing(); len(missing) > 0 {
		logger.Warn("judge output is missing metrics, treating them as 0", zap.Any("missing", missing))
	}
	emit(StageExtract, StateDone, "")

	emit(StageFusion, StateStarted, "")
	started = time.Now()
	decision := Fuse(bertScore, metrics)
	p.metrics.observeStage(StageFusion, started)
	emit(StageFusion, StateDone, string(decision.Status))

	return &model.ScoreResult{
		ID:         id,
		BertScore:  bertScore,
		LLMScore:   decision.LLMScore,
		FinalScore: decision.FinalScore,
		Status:     decision.Status,
		Msg:        decision.Msg,
		Metrics:    metrics,
	}
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
