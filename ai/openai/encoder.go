package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/agroqa/ai"
	"github.com/poiesic/agroqa/core"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Encoder implements ai.Encoder using OpenAI-compatible embedding APIs.
// Output vectors are unit-L2-normalized so that index dot products are
// cosine similarities.
type Encoder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// newEncoder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEncoder(config *ai.Config) (*Encoder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Encoder{
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-encoder"),
	}, nil
}

// NewEncoder creates a new encoder using the provided configuration.
//
// Returns ai.Encoder interface to enforce abstraction.
func NewEncoder(config *ai.Config) (ai.Encoder, error) {
	return newEncoder(config)
}

// EncodeQuery generates a unit-normalized vector for a single text.
func (e *Encoder) EncodeQuery(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("encoding query", "length", len(text))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to encode query", "err", err)
		return nil, err
	}

	// An empty embedding would score every candidate zero downstream, which
	// is indistinguishable from a real ranking. Treat it as a service fault.
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		e.logger.Error("embedding service returned empty result")
		return nil, fmt.Errorf("%w: empty embedding response", core.ErrEncoderUnavailable)
	}

	return core.NormalizeVector(vectors[0]), nil
}

// EncodeBatch generates unit-normalized vectors for multiple texts.
func (e *Encoder) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("encoding batch", "count", len(texts))

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to encode batch", "count", len(texts), "err", err)
		return nil, err
	}

	for i, v := range vectors {
		vectors[i] = core.NormalizeVector(v)
	}
	return vectors, nil
}
