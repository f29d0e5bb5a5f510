package rank

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/agroqa/artifact"
)

func TestLearnedPrefix(t *testing.T) {
	assert.Equal(t, 20, LearnedPrefix(1))
	assert.Equal(t, 20, LearnedPrefix(5))
	assert.Equal(t, 24, LearnedPrefix(6))
	assert.Equal(t, 80, LearnedPrefix(20))
}

func TestApplyLearnedSkipsNilBundle(t *testing.T) {
	candidates := []Candidate{{Final: 0.5}}

	applied := ApplyLearned(nil, Tokenize("query"), candidates, 5, slog.Default())

	assert.False(t, applied)
	assert.InDelta(t, 0.5, candidates[0].Final, 1e-9)
}

func TestApplyLearnedSkipsMalformedWeights(t *testing.T) {
	bundle := &artifact.RerankerBundle{
		TermWeights:    map[string]float64{"corn": 1.0},
		FeatureWeights: []float64{0.5},
	}
	candidates := []Candidate{{Final: 0.5}}

	applied := ApplyLearned(bundle, Tokenize("query"), candidates, 5, slog.Default())

	assert.False(t, applied)
}

func TestApplyLearnedPromotesModelFavorite(t *testing.T) {
	bundle := &artifact.RerankerBundle{
		Version:        "v2",
		TermWeights:    map[string]float64{"nitrogen": 2.0, "corn": 1.0},
		FeatureWeights: []float64{1.0, 0.0},
		Bias:           0.0,
	}
	queryTokens := Tokenize("nitrogen for corn")
	candidates := []Candidate{
		{Index: 0, Final: 0.50, Text: "general crop advice", Answer: "general"},
		{Index: 1, Final: 0.49, Text: "nitrogen rates for corn", Answer: "nitrogen"},
	}

	applied := ApplyLearned(bundle, queryTokens, candidates, 5, slog.Default())
	require.True(t, applied)

	// Model features: candidate 0 shares no weighted terms (raw 0),
	// candidate 1 shares nitrogen and corn (raw 2^2+1^2 = 5). After min-max
	// normalization the scores are 0 and 1:
	//   0.85*0.50 + 0.15*0 = 0.425
	//   0.85*0.49 + 0.15*1 = 0.5665
	assert.Equal(t, "nitrogen", candidates[0].Answer)
	assert.InDelta(t, 0.5665, candidates[0].Final, 1e-9)
	assert.InDelta(t, 0.425, candidates[1].Final, 1e-9)
}

func TestApplyLearnedConstantScoresKeepOrder(t *testing.T) {
	bundle := &artifact.RerankerBundle{
		TermWeights:    map[string]float64{"unmatched": 1.0},
		FeatureWeights: []float64{1.0, 0.0},
	}
	candidates := []Candidate{
		{Index: 0, Final: 0.6, Text: "first", Answer: "a"},
		{Index: 1, Final: 0.5, Text: "second", Answer: "b"},
	}

	applied := ApplyLearned(bundle, Tokenize("query terms"), candidates, 5, slog.Default())
	require.True(t, applied)

	// Every raw score is identical, so normalization yields zeros and the
	// blended order survives with scaled-down scores.
	assert.Equal(t, "a", candidates[0].Answer)
	assert.InDelta(t, 0.85*0.6, candidates[0].Final, 1e-9)
	assert.InDelta(t, 0.85*0.5, candidates[1].Final, 1e-9)
}

func TestApplyLearnedOnlyTouchesPrefix(t *testing.T) {
	bundle := &artifact.RerankerBundle{
		TermWeights:    map[string]float64{"corn": 1.0},
		FeatureWeights: []float64{1.0, 0.0},
	}
	candidates := make([]Candidate, 25)
	for i := range candidates {
		candidates[i] = Candidate{Index: i, Final: 1.0 - float64(i)*0.01, Text: "filler text"}
	}
	tail := candidates[24]

	applied := ApplyLearned(bundle, Tokenize("corn"), candidates, 1, slog.Default())
	require.True(t, applied)

	// topK=1 refines a prefix of 20; entries past it are untouched.
	assert.Equal(t, tail, candidates[24])
}
