package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/agroqa/ai/mock"
	"github.com/poiesic/agroqa/core"
	corpusbadger "github.com/poiesic/agroqa/corpus/badger"
)

func TestNewPipelineValidation(t *testing.T) {
	repo, backend, err := corpusbadger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewPipeline(nil, mock.NewEncoder())
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewPipeline(repo, nil)
	assert.ErrorIs(t, err, ErrEncoderRequired)
}

func TestIngestEmbedsAndStores(t *testing.T) {
	repo, backend, err := corpusbadger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	p, err := NewPipeline(repo, mock.NewEncoder(), WithBatchSize(2), WithPoolSize(2))
	require.NoError(t, err)
	defer p.Release()

	pairs := []*core.Pair{
		{Question: "When to plant corn?", Answer: "After the last frost."},
		{Question: "How deep for potatoes?", Answer: "About 10 cm."},
		{Question: "Watering tomatoes?", Answer: "Twice a week."},
	}

	err = p.Ingest(context.Background(), pairs)
	require.NoError(t, err)

	count, err := repo.CountPairs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	for _, pair := range pairs {
		stored, err := repo.GetPair(context.Background(), pair.Id)
		require.NoError(t, err)
		assert.NotEmpty(t, stored.QuestionVector, "question vector for %q", pair.Question)
		assert.NotEmpty(t, stored.AnswerVector, "answer vector for %q", pair.Question)
	}
}

func TestIngestEmpty(t *testing.T) {
	repo, backend, err := corpusbadger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	p, err := NewPipeline(repo, mock.NewEncoder())
	require.NoError(t, err)
	defer p.Release()

	assert.NoError(t, p.Ingest(context.Background(), nil))
}

func TestIngestReportsEmbeddingFailures(t *testing.T) {
	repo, backend, err := corpusbadger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	enc := mock.NewEncoder()
	enc.EncodeBatchFunc = func(context.Context, []string) ([][]float32, error) {
		return nil, errors.New("embedding host down")
	}

	p, err := NewPipeline(repo, enc, WithRetry(1, time.Millisecond))
	require.NoError(t, err)
	defer p.Release()

	err = p.Ingest(context.Background(), []*core.Pair{{Question: "q", Answer: "a"}})
	require.Error(t, err)

	// The pair is stored even though embedding failed; a later re-ingest
	// can fill in the vectors.
	count, err := repo.CountPairs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRetryWithBackoffEventualSuccess(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, 5, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoffExhausted(t *testing.T) {
	boom := errors.New("boom")
	attempts := 0

	err := RetryWithBackoff(context.Background(), func() error {
		attempts++
		return boom
	}, 3, time.Millisecond)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoffInvalidAttempts(t *testing.T) {
	err := RetryWithBackoff(context.Background(), func() error { return nil }, 0, time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestRetryWithBackoffCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error { return errors.New("never runs") }, 3, time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
}
