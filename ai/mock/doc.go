// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Encoder, ai.AnswerScorer,
// and ai.Provider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	provider := mock.NewProvider()
//	vector, err := provider.Encoder().EncodeQuery(ctx, "test")
//
//	// Custom behavior injection
//	encoder := mock.NewEncoder()
//	encoder.EncodeQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{1, 0, 0}, nil
//	}
//
// # Default Behavior
//
//   - Encoder: returns deterministic unit vectors based on text hash
//   - Scorer: scores every candidate 0.5
//   - Provider: aggregates mock encoder and scorer
package mock
