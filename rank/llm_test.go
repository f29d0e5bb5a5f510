package rank

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/agroqa/ai/mock"
)

func TestClampLLMPrefix(t *testing.T) {
	assert.Equal(t, 1, ClampLLMPrefix(0))
	assert.Equal(t, 1, ClampLLMPrefix(-3))
	assert.Equal(t, 1, ClampLLMPrefix(1))
	assert.Equal(t, 25, ClampLLMPrefix(25))
	assert.Equal(t, 25, ClampLLMPrefix(100))
}

func TestClampLLMWeight(t *testing.T) {
	assert.Zero(t, ClampLLMWeight(-1))
	assert.InDelta(t, 0.3, ClampLLMWeight(0.3), 1e-9)
	assert.InDelta(t, 0.5, ClampLLMWeight(0.9), 1e-9)
	assert.Zero(t, ClampLLMWeight(0))
}

// An explicit negative weight clamps to zero and disables the stage rather
// than silently re-enabling it at the default.
func TestNegativeWeightDisablesLLMStage(t *testing.T) {
	scorer := mock.NewScorer()
	scorer.ScoreAnswersFunc = func(_ context.Context, _ string, answers []string) ([]float64, error) {
		return make([]float64, len(answers)), nil
	}
	candidates := []Candidate{{Final: 0.5, Answer: "a"}}

	applied := ApplyLLM(context.Background(), scorer, "q", candidates, 5, ClampLLMWeight(-1), time.Second, slog.Default())

	assert.False(t, applied)
	assert.InDelta(t, 0.5, candidates[0].Final, 1e-9)
}

func TestApplyLLMBlendsScores(t *testing.T) {
	scorer := mock.NewScorer()
	scorer.ScoreAnswersFunc = func(_ context.Context, _ string, answers []string) ([]float64, error) {
		scores := make([]float64, len(answers))
		for i := range scores {
			scores[i] = 1.0
		}
		return scores, nil
	}
	candidates := []Candidate{{Final: 0.5, Answer: "a"}}

	applied := ApplyLLM(context.Background(), scorer, "q", candidates, 5, 0.10, time.Second, slog.Default())
	require.True(t, applied)

	// 0.5*0.9 + 1.0*0.1 = 0.55
	assert.InDelta(t, 0.55, candidates[0].Final, 1e-9)
}

func TestApplyLLMReordersPrefixOnly(t *testing.T) {
	scorer := mock.NewScorer()
	scorer.ScoreAnswersFunc = func(_ context.Context, _ string, answers []string) ([]float64, error) {
		// Favor the last graded answer hard.
		scores := make([]float64, len(answers))
		scores[len(scores)-1] = 1.0
		return scores, nil
	}
	candidates := []Candidate{
		{Index: 0, Final: 0.52, Answer: "a"},
		{Index: 1, Final: 0.50, Answer: "b"},
		{Index: 2, Final: 0.40, Answer: "c"},
	}

	applied := ApplyLLM(context.Background(), scorer, "q", candidates, 2, 0.5, time.Second, slog.Default())
	require.True(t, applied)

	// Graded prefix: a -> 0.26, b -> 0.75. Candidate c sits outside the
	// prefix and keeps both its score and its position.
	assert.Equal(t, "b", candidates[0].Answer)
	assert.Equal(t, "a", candidates[1].Answer)
	assert.Equal(t, "c", candidates[2].Answer)
	assert.InDelta(t, 0.40, candidates[2].Final, 1e-9)
}

func TestApplyLLMSkipsOnError(t *testing.T) {
	scorer := mock.NewScorer()
	scorer.ScoreAnswersFunc = func(context.Context, string, []string) ([]float64, error) {
		return nil, errors.New("model offline")
	}
	candidates := []Candidate{{Final: 0.5, Answer: "a"}}

	applied := ApplyLLM(context.Background(), scorer, "q", candidates, 5, 0.10, time.Second, slog.Default())

	assert.False(t, applied)
	assert.InDelta(t, 0.5, candidates[0].Final, 1e-9)
}

func TestApplyLLMSkipsOnCountMismatch(t *testing.T) {
	scorer := mock.NewScorer()
	scorer.ScoreAnswersFunc = func(context.Context, string, []string) ([]float64, error) {
		return []float64{0.9, 0.1}, nil
	}
	candidates := []Candidate{{Final: 0.5, Answer: "a"}}

	applied := ApplyLLM(context.Background(), scorer, "q", candidates, 5, 0.10, time.Second, slog.Default())

	assert.False(t, applied)
	assert.InDelta(t, 0.5, candidates[0].Final, 1e-9)
}

func TestApplyLLMSkipsWhenDisabled(t *testing.T) {
	candidates := []Candidate{{Final: 0.5}}

	assert.False(t, ApplyLLM(context.Background(), nil, "q", candidates, 5, 0.10, time.Second, slog.Default()))
	assert.False(t, ApplyLLM(context.Background(), mock.NewScorer(), "q", candidates, 5, 0, time.Second, slog.Default()))
	assert.False(t, ApplyLLM(context.Background(), mock.NewScorer(), "q", nil, 5, 0.10, time.Second, slog.Default()))
}
