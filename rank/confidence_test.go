package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnotateConfidenceFlagsWeakTopMatch(t *testing.T) {
	candidates := []Candidate{
		{Similarity: 0.10, Final: 0.8, Answer: "apply lime in autumn"},
		{Similarity: 0.05, Final: 0.3, Answer: "rotate crops yearly"},
	}

	AnnotateConfidence(candidates, 0.25)

	assert.Equal(t, "[low confidence] apply lime in autumn", candidates[0].Answer)
	// Only the top answer is annotated.
	assert.Equal(t, "rotate crops yearly", candidates[1].Answer)
}

func TestAnnotateConfidenceUsesRawSimilarity(t *testing.T) {
	// A high blended score does not rescue a weak embedding match.
	candidates := []Candidate{{Similarity: 0.20, Final: 0.95, Answer: "answer"}}

	AnnotateConfidence(candidates, 0.25)

	assert.Equal(t, "[low confidence] answer", candidates[0].Answer)
}

func TestAnnotateConfidenceLeavesStrongMatch(t *testing.T) {
	candidates := []Candidate{{Similarity: 0.30, Answer: "answer"}}

	AnnotateConfidence(candidates, 0.25)

	assert.Equal(t, "answer", candidates[0].Answer)
}

func TestAnnotateConfidenceEmpty(t *testing.T) {
	AnnotateConfidence(nil, 0.25)
}
