// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/agroqa/core"
	"github.com/poiesic/agroqa/corpus"
)

// PairRepository implements corpus.PairRepository for BadgerDB.
type PairRepository struct {
	backend *Backend
}

var _ corpus.PairRepository = (*PairRepository)(nil)

// NewPairRepository creates a pair repository over an open backend.
func NewPairRepository(backend *Backend) *PairRepository {
	return &PairRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *PairRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *PairRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddPairs upserts pairs under their content-based IDs.
func (r *PairRepository) AddPairs(ctx context.Context, pairs ...*core.Pair) ([]*core.Pair, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, pair := range pairs {
			if err := core.ValidatePair(pair); err != nil {
				return err
			}
			pair.Id = core.PairID(pair.Question, pair.Answer)

			key := makePairKey(pair.Id)
			existing, err := r.readPair(tx, key)
			if err != nil {
				return err
			}
			if existing != nil {
				pair.InsertedAt = existing.InsertedAt
			} else if pair.InsertedAt.IsZero() {
				pair.InsertedAt = now
			}
			pair.UpdatedAt = now

			if err := tx.Set(key, corpus.MarshalPair(pair)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return pairs, err
}

// DeletePairs removes pairs by their IDs.
func (r *PairRepository) DeletePairs(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makePairKey(id)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return corpus.ErrNotFound
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetPair retrieves a single pair by ID.
func (r *PairRepository) GetPair(ctx context.Context, id core.ID) (*core.Pair, error) {
	var pair *core.Pair
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		pair, err = r.readPair(tx, makePairKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, corpus.ErrNotFound
	}
	return pair, nil
}

// GetPairs retrieves the pairs that exist; missing IDs are skipped.
func (r *PairRepository) GetPairs(ctx context.Context, ids ...core.ID) ([]*core.Pair, error) {
	var pairs []*core.Pair
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			pair, err := r.readPair(tx, makePairKey(id))
			if err != nil {
				return err
			}
			if pair != nil {
				pairs = append(pairs, pair)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

// ForEachPair visits every stored pair in key order.
func (r *PairRepository) ForEachPair(ctx context.Context, fn func(*core.Pair) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(pairPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var pair *core.Pair
			err := iter.Item().Value(func(val []byte) error {
				var err error
				pair, err = corpus.UnmarshalPair(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(pair); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// CountPairs returns the number of stored pairs.
func (r *PairRepository) CountPairs(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(pairPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// readPair reads and deserializes a pair, returning nil if absent.
func (r *PairRepository) readPair(tx *badger.Txn, key []byte) (*core.Pair, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var pair *core.Pair
	err = item.Value(func(val []byte) error {
		var err error
		pair, err = corpus.UnmarshalPair(val)
		return err
	})
	return pair, err
}
