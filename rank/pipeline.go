package rank

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/agroqa/ai"
	"github.com/poiesic/agroqa/artifact"
	"github.com/poiesic/agroqa/core"
)

// Pipeline runs the hybrid retrieval-ranking stages over one artifact
// snapshot. It holds no mutable state of its own: every query reads the
// snapshot it is given, so reloads never race in-flight queries.
type Pipeline struct {
	encoder    ai.Encoder
	scorer     ai.AnswerScorer
	llmPrefix  int
	llmWeight  float64
	llmTimeout time.Duration
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithLLMPrefix sets how many top candidates the external scorer grades.
// Clamped to [1,25].
func WithLLMPrefix(n int) Option {
	return func(p *Pipeline) error {
		p.llmPrefix = ClampLLMPrefix(n)
		return nil
	}
}

// WithLLMWeight sets the external scorer's blend weight. Clamped to [0,0.5].
func WithLLMWeight(w float64) Option {
	return func(p *Pipeline) error {
		p.llmWeight = ClampLLMWeight(w)
		return nil
	}
}

// WithLLMTimeout bounds the external scoring call.
func WithLLMTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d > 0 {
			p.llmTimeout = d
		}
		return nil
	}
}

// NewPipeline creates a ranking pipeline. The scorer may be a no-op
// implementation; the LLM stage then skips itself per query.
func NewPipeline(encoder ai.Encoder, scorer ai.AnswerScorer, opts ...Option) (*Pipeline, error) {
	if encoder == nil {
		return nil, ErrEncoderRequired
	}

	p := &Pipeline{
		encoder:    encoder,
		scorer:     scorer,
		llmPrefix:  DefaultLLMPrefix,
		llmWeight:  DefaultLLMWeight,
		llmTimeout: 5 * time.Second,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Run executes the full ranking flow for one query and returns up to topK
// results, ranked from 1. topK must already be clamped by the caller.
func (p *Pipeline) Run(ctx context.Context, snap *artifact.Snapshot, query string, topK int) ([]core.Result, error) {
	return p.RunWithMonitor(ctx, snap, query, topK, nil)
}

// RunWithMonitor is Run with per-stage observation hooks.
func (p *Pipeline) RunWithMonitor(ctx context.Context, snap *artifact.Snapshot, query string, topK int, monitor Monitor) ([]core.Result, error) {
	if snap == nil {
		return nil, ErrSnapshotRequired
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	queryVector, err := p.encoder.EncodeQuery(ctx, query)
	if err != nil {
		p.logger.Error("query encoding failed", "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrEncoderUnavailable, err)
	}

	index, mode := snap.ActiveIndex()
	candidates := Retrieve(index, queryVector, PoolSize(topK))
	retrieved := len(candidates)
	monitor.AfterRetrieve(mode, candidates)
	if len(candidates) == 0 {
		results := []core.Result{}
		monitor.Finish(results)
		return results, nil
	}

	queryTokens := Tokenize(query)
	Blend(candidates, queryTokens, snap.Tuning.Alpha)
	monitor.AfterBlend(candidates)

	learnedApplied := ApplyLearned(snap.Reranker, queryTokens, candidates, topK, p.logger)
	monitor.AfterLearnedRerank(learnedApplied, candidates)

	llmApplied := ApplyLLM(ctx, p.scorer, query, candidates, p.llmPrefix, p.llmWeight, p.llmTimeout, p.logger)
	monitor.AfterLLMRerank(llmApplied, candidates)

	AnnotateConfidence(candidates, snap.Tuning.MinCosine)

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	results := make([]core.Result, len(candidates))
	for i, c := range candidates {
		results[i] = core.Result{
			Rank:   i + 1,
			Score:  c.Final,
			Answer: c.Answer,
		}
	}
	monitor.Finish(results)

	p.logger.Debug("query ranked",
		"mode", mode.String(),
		"pool", retrieved,
		"results", len(results),
		"learned", learnedApplied,
		"llm", llmApplied)

	return results, nil
}
