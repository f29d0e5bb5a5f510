package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePair(t *testing.T) {
	t.Run("valid pair", func(t *testing.T) {
		err := ValidatePair(&Pair{
			Question: "When should I irrigate rice?",
			Answer:   "Keep fields flooded through tillering.",
		})
		assert.NoError(t, err)
	})

	t.Run("nil pair", func(t *testing.T) {
		err := ValidatePair(nil)
		assert.ErrorIs(t, err, ErrInvalidPair)
	})

	t.Run("empty question", func(t *testing.T) {
		err := ValidatePair(&Pair{Answer: "something"})
		assert.ErrorIs(t, err, ErrInvalidPair)
		assert.ErrorIs(t, err, ErrEmptyQuestionText)
	})

	t.Run("empty answer", func(t *testing.T) {
		err := ValidatePair(&Pair{Question: "something"})
		assert.ErrorIs(t, err, ErrInvalidPair)
		assert.ErrorIs(t, err, ErrEmptyAnswerText)
	})

	t.Run("vectors not required", func(t *testing.T) {
		err := ValidatePair(&Pair{Question: "q", Answer: "a"})
		assert.NoError(t, err)
	})
}

func TestValidateQuestion(t *testing.T) {
	assert.NoError(t, ValidateQuestion("what fertilizer helps yield?"))
	assert.ErrorIs(t, ValidateQuestion(""), ErrEmptyQuestion)
	assert.ErrorIs(t, ValidateQuestion("   \t\n"), ErrEmptyQuestion)
}

func TestClampTopK(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultTopK},
		{-3, DefaultTopK},
		{1, 1},
		{5, 5},
		{20, 20},
		{21, 20},
		{1000, 20},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampTopK(tt.in))
	}
}
