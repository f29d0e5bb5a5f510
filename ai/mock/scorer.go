package mock

import "context"

// Scorer is a test double for ai.AnswerScorer.
// It allows custom behavior injection via function fields.
type Scorer struct {
	// ScoreAnswersFunc is called by ScoreAnswers if set.
	// If nil, every candidate scores 0.5.
	ScoreAnswersFunc func(ctx context.Context, query string, answers []string) ([]float64, error)

	callCount int
}

// NewScorer creates a mock scorer with default neutral behavior.
// Note: Returns concrete type to allow test assertions.
func NewScorer() *Scorer {
	return &Scorer{}
}

// ScoreAnswers returns fixed neutral scores unless overridden.
func (m *Scorer) ScoreAnswers(ctx context.Context, query string, answers []string) ([]float64, error) {
	m.callCount++

	if m.ScoreAnswersFunc != nil {
		return m.ScoreAnswersFunc(ctx, query, answers)
	}

	scores := make([]float64, len(answers))
	for i := range scores {
		scores[i] = 0.5
	}
	return scores, nil
}

// CallCount returns the number of times ScoreAnswers was called.
func (m *Scorer) CallCount() int {
	return m.callCount
}
