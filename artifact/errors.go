package artifact

import "errors"

var (
	// ErrCorruptIndex indicates an index artifact failed decoding or
	// dimension validation.
	ErrCorruptIndex = errors.New("corrupt index artifact")

	// ErrInvalidReranker indicates a reranker bundle failed validation.
	ErrInvalidReranker = errors.New("invalid reranker bundle")

	// ErrNotLoaded indicates the store has no installed snapshot yet.
	ErrNotLoaded = errors.New("artifact store not loaded")
)
