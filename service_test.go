package agroqa

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/agroqa/ai/mock"
	"github.com/poiesic/agroqa/artifact"
	"github.com/poiesic/agroqa/core"
	"github.com/poiesic/agroqa/rank"
)

func writeAnswerIndex(t *testing.T, dir string, entries ...artifact.IndexEntry) {
	t.Helper()
	index := &artifact.Index{Dim: 3, Entries: entries}
	require.NoError(t, artifact.WriteIndexFile(filepath.Join(dir, artifact.AnswersFile), index))
}

func defaultEntries() []artifact.IndexEntry {
	return []artifact.IndexEntry{
		{Text: "Apply nitrogen fertilizer in spring.", Answer: "Apply nitrogen fertilizer in spring.", Vector: []float32{0.9, 0, 0}},
		{Text: "Rotate crops every season.", Answer: "Rotate crops every season.", Vector: []float32{0.5, 0, 0}},
	}
}

func newTestService(t *testing.T, dir string) (*Service, *mock.Encoder) {
	t.Helper()

	enc := mock.NewEncoder()
	enc.EncodeQueryFunc = func(context.Context, string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}
	provider := mock.NewProviderWithServices(enc, mock.NewScorer())

	svc, err := NewService(dir, provider)
	require.NoError(t, err)
	return svc, enc
}

func TestNewServiceRequiresProvider(t *testing.T) {
	_, err := NewService(t.TempDir(), nil)
	assert.ErrorIs(t, err, ErrProviderRequired)
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	svc, _ := newTestService(t, t.TempDir())

	_, err := svc.Ask(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, core.ErrEmptyQuestion)
}

func TestAskBeforeLoad(t *testing.T) {
	svc, _ := newTestService(t, t.TempDir())

	_, err := svc.Ask(context.Background(), "how to grow corn", 5)
	assert.ErrorIs(t, err, core.ErrArtifactMissing)
	assert.False(t, svc.Ready())
}

func TestAskReturnsRankedResults(t *testing.T) {
	dir := t.TempDir()
	writeAnswerIndex(t, dir, defaultEntries()...)

	svc, _ := newTestService(t, dir)
	require.NoError(t, svc.Load())
	assert.True(t, svc.Ready())

	results, err := svc.Ask(context.Background(), "how to improve soil", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, "Apply nitrogen fertilizer in spring.", results[0].Answer)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestAskCachesResults(t *testing.T) {
	dir := t.TempDir()
	writeAnswerIndex(t, dir, defaultEntries()...)

	svc, enc := newTestService(t, dir)
	require.NoError(t, svc.Load())

	first, err := svc.Ask(context.Background(), "how to improve soil", 5)
	require.NoError(t, err)
	encodesAfterFirst := enc.CallCount()

	second, err := svc.Ask(context.Background(), "how to improve soil", 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, encodesAfterFirst, enc.CallCount(), "cache hit must not re-encode")
}

func TestAskEncoderFailure(t *testing.T) {
	dir := t.TempDir()
	writeAnswerIndex(t, dir, defaultEntries()...)

	enc := mock.NewEncoder()
	enc.EncodeQueryFunc = func(context.Context, string) ([]float32, error) {
		return nil, errors.New("connection refused")
	}
	svc, err := NewService(dir, mock.NewProviderWithServices(enc, mock.NewScorer()))
	require.NoError(t, err)
	require.NoError(t, svc.Load())

	_, err = svc.Ask(context.Background(), "how to improve soil", 5)
	assert.ErrorIs(t, err, core.ErrEncoderUnavailable)
}

func TestEntityShortcutBypassesPipeline(t *testing.T) {
	dir := t.TempDir()
	writeAnswerIndex(t, dir, defaultEntries()...)

	entities := `[{"name":"Corn","category":"crop","attributes":{"soil_ph":"5.8-7.0"}}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, artifact.EntitiesFile), []byte(entities), 0644))

	// The encoder always fails: a shortcut hit must still answer.
	enc := mock.NewEncoder()
	enc.EncodeQueryFunc = func(context.Context, string) ([]float32, error) {
		return nil, errors.New("encoder down")
	}
	svc, err := NewService(dir, mock.NewProviderWithServices(enc, mock.NewScorer()))
	require.NoError(t, err)
	require.NoError(t, svc.Load())

	results, err := svc.Ask(context.Background(), "tell me about corn please", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Corn (crop): soil ph: 5.8-7.0", results[0].Answer)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestReloadInvalidatesCache(t *testing.T) {
	dir := t.TempDir()
	writeAnswerIndex(t, dir, defaultEntries()...)

	svc, enc := newTestService(t, dir)
	require.NoError(t, svc.Load())

	first, err := svc.Ask(context.Background(), "how to improve soil", 5)
	require.NoError(t, err)
	encodesAfterFirst := enc.CallCount()

	// Replace the index with a reordered corpus and defeat coarse mtime
	// resolution so the signature probe sees the change.
	writeAnswerIndex(t, dir,
		artifact.IndexEntry{Text: "Mulch beds in autumn.", Answer: "Mulch beds in autumn.", Vector: []float32{0.9, 0, 0}},
	)
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(filepath.Join(dir, artifact.AnswersFile), future, future))

	status, err := svc.Reload()
	require.NoError(t, err)
	assert.True(t, status.Reloaded)
	assert.Equal(t, 1, status.AnswerCount)

	second, err := svc.Ask(context.Background(), "how to improve soil", 5)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "reload must recompute, not serve the stale ranking")
	assert.Greater(t, enc.CallCount(), encodesAfterFirst)
	assert.Equal(t, "Mulch beds in autumn.", second[0].Answer)
}

func TestReloadNoChangeKeepsCache(t *testing.T) {
	dir := t.TempDir()
	writeAnswerIndex(t, dir, defaultEntries()...)

	svc, enc := newTestService(t, dir)
	require.NoError(t, svc.Load())

	_, err := svc.Ask(context.Background(), "how to improve soil", 5)
	require.NoError(t, err)
	encodesAfterFirst := enc.CallCount()

	status, err := svc.Reload()
	require.NoError(t, err)
	assert.False(t, status.Reloaded)

	_, err = svc.Ask(context.Background(), "how to improve soil", 5)
	require.NoError(t, err)
	assert.Equal(t, encodesAfterFirst, enc.CallCount())
}

func TestMetrics(t *testing.T) {
	dir := t.TempDir()
	writeAnswerIndex(t, dir, defaultEntries()...)
	require.NoError(t, os.WriteFile(filepath.Join(dir, artifact.MetricsFile), []byte(`{"recall_at_1":0.7}`), 0644))

	svc, _ := newTestService(t, dir)

	_, ok := svc.Metrics()
	assert.False(t, ok, "no metrics before load")

	require.NoError(t, svc.Load())

	metrics, ok := svc.Metrics()
	require.True(t, ok)
	assert.JSONEq(t, `{"recall_at_1":0.7}`, string(metrics))
}

func TestServicePipelineOptionsForwarded(t *testing.T) {
	dir := t.TempDir()
	writeAnswerIndex(t, dir, defaultEntries()...)

	enc := mock.NewEncoder()
	enc.EncodeQueryFunc = func(context.Context, string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}
	scorer := mock.NewScorer()
	scorer.ScoreAnswersFunc = func(_ context.Context, _ string, answers []string) ([]float64, error) {
		scores := make([]float64, len(answers))
		for i, a := range answers {
			if a == "Rotate crops every season." {
				scores[i] = 1.0
			}
		}
		return scores, nil
	}

	svc, err := NewService(dir, mock.NewProviderWithServices(enc, scorer),
		WithPipelineOptions(rank.WithLLMWeight(0.5)))
	require.NoError(t, err)
	require.NoError(t, svc.Load())

	results, err := svc.Ask(context.Background(), "how to improve soil", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Rotate crops every season.", results[0].Answer)
}
