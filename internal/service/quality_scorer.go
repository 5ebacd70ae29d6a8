package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"go.uber.org/zap"

	"promptscore/internal/config"
)

// QualityScorer returns an auxiliary quality score in [0,100]. Implementations
// never fail: an unavailable scorer yields 0.
type QualityScorer interface {
	Score(ctx context.Context, prompt string) float64
}

// RemoteScorer calls the hosted BERT classifier
type RemoteScorer struct {
	url     string
	client  *http.Client
	logger  *zap.Logger
	metrics *Metrics
}

// NewRemoteScorer creates a scorer bound to cfg.URL with a per-call timeout
func NewRemoteScorer(cfg config.ScorerConfig, logger *zap.Logger, metrics *Metrics) *RemoteScorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteScorer{
		url: cfg.URL,
		client: &http.Client{
			Timeout: cfg.Timeout(),
		},
		logger:  logger.Named("scorer"),
		metrics: metrics,
	}
}

type scoreRequest struct {
	Prompt string `json:"prompt"`
}

type scoreResponse struct {
	Score *float64 `json:"score"`
}

// errMissingScore marks a 200 response without a numeric score field
var errMissingScore = errors.New("response has no score field")

// Score implements QualityScorer. Every failure degrades to 0.
func (s *RemoteScorer) Score(ctx context.Context, prompt string) float64 {
	score, err := s.fetch(ctx, prompt)
	if err != nil {
		reason := "request"
		var netErr net.Error
		switch {
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled),
			errors.As(err, &netErr) && netErr.Timeout():
			reason = "timeout"
		case errors.Is(err, errMissingScore):
			reason = "malformed"
		}
		s.metrics.scorerFailed(reason)
		s.logger.Warn("quality scorer unavailable, using 0", zap.String("reason", reason), zap.Error(err))
		return 0
	}
	return clampScore(score)
}

func (s *RemoteScorer) fetch(ctx context.Context, prompt string) (float64, error) {
	jsonBody, err := json.Marshal(scoreRequest{Prompt: prompt})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(jsonBody))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}

	var body scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: %v", errMissingScore, err)
	}
	if body.Score == nil {
		return 0, errMissingScore
	}
	return *body.Score, nil
}
