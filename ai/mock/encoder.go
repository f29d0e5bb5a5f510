package mock

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/poiesic/agroqa/core"
)

// Encoder is a test double for ai.Encoder.
// It allows custom behavior injection via function fields.
type Encoder struct {
	// EncodeQueryFunc is called by EncodeQuery if set.
	// If nil, uses default deterministic behavior.
	EncodeQueryFunc func(ctx context.Context, text string) ([]float32, error)

	// EncodeBatchFunc is called by EncodeBatch if set.
	// If nil, uses default deterministic behavior.
	EncodeBatchFunc func(ctx context.Context, texts []string) ([][]float32, error)

	callCount int
}

// NewEncoder creates a mock encoder with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// EncodeQuery generates a deterministic unit vector based on text hash.
func (m *Encoder) EncodeQuery(ctx context.Context, text string) ([]float32, error) {
	m.callCount++

	if m.EncodeQueryFunc != nil {
		return m.EncodeQueryFunc(ctx, text)
	}

	return DeterministicVector(text, 384), nil
}

// EncodeBatch generates deterministic unit vectors for multiple texts.
func (m *Encoder) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount++

	if m.EncodeBatchFunc != nil {
		return m.EncodeBatchFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = DeterministicVector(text, 384)
	}
	return vectors, nil
}

// CallCount returns the number of times any method was called.
func (m *Encoder) CallCount() int {
	return m.callCount
}

// DeterministicVector generates a repeatable unit vector from text.
// Similar texts do NOT get similar vectors; tests that need controlled
// similarity should inject EncodeQueryFunc instead.
func DeterministicVector(text string, dim int) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	v := make([]float32, dim)
	for i := range v {
		// xorshift-style scramble; spread values in [-1, 1]
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		v[i] = float32(math.Sin(float64(seed%10007) + float64(i)))
	}
	return core.NormalizeVector(v)
}
