package rank

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/poiesic/agroqa/ai"
)

// LLM rerank defaults and bounds. The stage is deliberately a light touch:
// the blend weight is capped at 0.5 so an external model can adjust the
// order but never override the pipeline outright.
const (
	DefaultLLMPrefix = 5
	minLLMPrefix     = 1
	maxLLMPrefix     = 25

	DefaultLLMWeight = 0.10
	maxLLMWeight     = 0.5
)

// ClampLLMPrefix bounds the number of candidates sent to the scorer
// to [1, 25].
func ClampLLMPrefix(n int) int {
	if n < minLLMPrefix {
		return minLLMPrefix
	}
	if n > maxLLMPrefix {
		return maxLLMPrefix
	}
	return n
}

// ClampLLMWeight bounds the external model's influence to [0, 0.5].
// A weight of zero disables the stage.
func ClampLLMWeight(w float64) float64 {
	if w < 0 {
		return 0
	}
	if w > maxLLMWeight {
		return maxLLMWeight
	}
	return w
}

// ApplyLLM sends the top prefix of candidates to the external scorer and
// blends its grades into their scores:
//
//	final = original*(1-weight) + llmScore*weight
//
// Only the prefix is resorted; the remainder keeps its order. The scorer is
// the single network hop on the query path, so the call is bounded by
// timeout and every failure (timeout, malformed response, unavailability)
// is swallowed: this stage must never block or fail the request.
func ApplyLLM(ctx context.Context, scorer ai.AnswerScorer, query string, candidates []Candidate, prefix int, weight float64, timeout time.Duration, logger *slog.Logger) bool {
	if scorer == nil || len(candidates) == 0 || weight == 0 {
		return false
	}

	n := ClampLLMPrefix(prefix)
	if n > len(candidates) {
		n = len(candidates)
	}

	answers := make([]string, n)
	for i := 0; i < n; i++ {
		answers[i] = candidates[i].Answer
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	scores, err := scorer.ScoreAnswers(ctx, query, answers)
	if err != nil {
		logger.Debug("llm rerank skipped", "err", err)
		return false
	}
	if len(scores) != n {
		logger.Warn("llm rerank skipped: score count mismatch", "want", n, "got", len(scores))
		return false
	}

	for i := 0; i < n; i++ {
		candidates[i].Final = candidates[i].Final*(1-weight) + scores[i]*weight
	}

	sort.SliceStable(candidates[:n], func(i, j int) bool {
		return candidates[i].Final > candidates[j].Final
	})
	return true
}
