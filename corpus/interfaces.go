package corpus

import (
	"context"

	"github.com/poiesic/agroqa/core"
)

// PairRepository provides operations for managing the question/answer
// corpus. Implementations must be thread-safe and support concurrent access.
type PairRepository interface {
	// AddPairs upserts one or more pairs. IDs are content-based
	// (core.PairID of question and answer), so re-adding the same pair
	// overwrites rather than duplicates. Sets InsertedAt when unset and
	// always refreshes UpdatedAt. Returns the pairs with IDs and
	// timestamps populated.
	AddPairs(ctx context.Context, pairs ...*core.Pair) ([]*core.Pair, error)

	// DeletePairs removes pairs by their IDs.
	// Returns ErrNotFound if any pair doesn't exist.
	DeletePairs(ctx context.Context, ids ...core.ID) error

	// GetPair retrieves a single pair by ID.
	// Returns ErrNotFound if the pair doesn't exist.
	GetPair(ctx context.Context, id core.ID) (*core.Pair, error)

	// GetPairs retrieves multiple pairs by their IDs.
	// Returns only the pairs that exist (no error for missing pairs).
	GetPairs(ctx context.Context, ids ...core.ID) ([]*core.Pair, error)

	// ForEachPair visits every stored pair in key order. Iteration stops
	// at the first error from fn, which is returned.
	ForEachPair(ctx context.Context, fn func(*core.Pair) error) error

	// CountPairs returns the number of stored pairs.
	CountPairs(ctx context.Context) (int, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}
