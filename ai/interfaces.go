package ai

import "context"

// Encoder maps query text to a unit-L2-normalized embedding vector.
// Implementations must be thread-safe for concurrent use and deterministic
// for a fixed text and model version.
type Encoder interface {
	// EncodeQuery generates a unit-normalized vector for a single text.
	// Returns an error if encoding fails; there is no statistical fallback
	// without the encoder, so callers surface this as service unavailable.
	EncodeQuery(ctx context.Context, text string) ([]float32, error)

	// EncodeBatch generates unit-normalized vectors for multiple texts.
	// The returned slice is in input order.
	EncodeBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// AnswerScorer scores candidate answers against a query via an external
// model. It is treated as unreliable: callers must tolerate timeouts and
// malformed output, and must never let a scorer failure fail the request.
type AnswerScorer interface {
	// ScoreAnswers returns one score in [0,1] per candidate answer,
	// in input order.
	ScoreAnswers(ctx context.Context, query string, answers []string) ([]float64, error)
}

// Provider aggregates AI capabilities for convenient initialization and
// lifecycle management. The scorer capability is selected once at
// construction: providers without an external scoring service return a
// no-op scorer rather than nil.
type Provider interface {
	// Encoder returns the query encoding service.
	Encoder() Encoder

	// AnswerScorer returns the answer scoring service.
	AnswerScorer() AnswerScorer

	// Close releases resources held by the provider and its services.
	Close() error
}

// NoopScorer is the scorer selected when no external scoring service is
// configured. It always reports unavailability; the rerank stage treats
// that as "keep the prior order".
type NoopScorer struct{}

var _ AnswerScorer = NoopScorer{}

// ScoreAnswers always returns ErrScoringUnavailable.
func (NoopScorer) ScoreAnswers(_ context.Context, _ string, _ []string) ([]float64, error) {
	return nil, ErrScoringUnavailable
}
