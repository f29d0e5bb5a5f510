package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/agroqa/core"
	"github.com/poiesic/agroqa/corpus"
)

func TestPairBasics(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	pair := &core.Pair{
		Question: "When should I plant winter wheat?",
		Answer:   "Plant winter wheat in early autumn, before the first frost.",
		Metadata: map[string]string{"source": "extension-faq"},
	}

	added, err := repo.AddPairs(ctx, pair)
	if err != nil {
		t.Fatalf("Failed to add pair: %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("Expected 1 pair, got %d", len(added))
	}
	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if added[0].Id != core.PairID(pair.Question, pair.Answer) {
		t.Fatal("Expected content-based ID")
	}
	if added[0].InsertedAt.IsZero() || added[0].UpdatedAt.IsZero() {
		t.Fatal("Expected timestamps to be populated")
	}

	retrieved, err := repo.GetPair(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get pair: %v", err)
	}
	if retrieved.Answer != pair.Answer {
		t.Fatalf("Expected %q, got %q", pair.Answer, retrieved.Answer)
	}
	if retrieved.Metadata["source"] != "extension-faq" {
		t.Fatalf("Expected metadata to round-trip, got %v", retrieved.Metadata)
	}
}

func TestPairUpsertIsIdempotent(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	first := &core.Pair{Question: "q", Answer: "a"}
	if _, err := repo.AddPairs(ctx, first); err != nil {
		t.Fatalf("Failed to add pair: %v", err)
	}
	stored, err := repo.GetPair(ctx, first.Id)
	if err != nil {
		t.Fatalf("Failed to get pair: %v", err)
	}

	second := &core.Pair{
		Question:       "q",
		Answer:         "a",
		QuestionVector: []float32{1, 0, 0},
	}
	if _, err := repo.AddPairs(ctx, second); err != nil {
		t.Fatalf("Failed to re-add pair: %v", err)
	}

	count, err := repo.CountPairs(ctx)
	if err != nil {
		t.Fatalf("Failed to count pairs: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 pair after re-add, got %d", count)
	}

	retrieved, err := repo.GetPair(ctx, second.Id)
	if err != nil {
		t.Fatalf("Failed to get pair: %v", err)
	}
	if len(retrieved.QuestionVector) != 3 {
		t.Fatal("Expected re-add to refresh stored vectors")
	}
	if !retrieved.InsertedAt.Equal(stored.InsertedAt) {
		t.Fatal("Expected re-add to keep the original InsertedAt")
	}
}

func TestPairValidationRejected(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	_, err = repo.AddPairs(context.Background(), &core.Pair{Question: "q"})
	if !errors.Is(err, core.ErrInvalidPair) {
		t.Fatalf("Expected ErrInvalidPair, got %v", err)
	}
}

func TestPairDelete(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	pair := &core.Pair{Question: "q", Answer: "a"}
	if _, err := repo.AddPairs(ctx, pair); err != nil {
		t.Fatalf("Failed to add pair: %v", err)
	}

	if err := repo.DeletePairs(ctx, pair.Id); err != nil {
		t.Fatalf("Failed to delete pair: %v", err)
	}

	if _, err := repo.GetPair(ctx, pair.Id); !errors.Is(err, corpus.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := repo.DeletePairs(ctx, pair.Id); !errors.Is(err, corpus.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestPairGetMany(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	a := &core.Pair{Question: "qa", Answer: "aa"}
	b := &core.Pair{Question: "qb", Answer: "ab"}
	if _, err := repo.AddPairs(ctx, a, b); err != nil {
		t.Fatalf("Failed to add pairs: %v", err)
	}

	pairs, err := repo.GetPairs(ctx, a.Id, core.ID(12345), b.Id)
	if err != nil {
		t.Fatalf("Failed to get pairs: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("Expected 2 pairs (missing ID skipped), got %d", len(pairs))
	}
}

func TestForEachPairVisitsAll(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	for _, q := range []string{"one", "two", "three"} {
		if _, err := repo.AddPairs(ctx, &core.Pair{Question: q, Answer: "answer " + q}); err != nil {
			t.Fatalf("Failed to add pair: %v", err)
		}
	}

	seen := 0
	err = repo.ForEachPair(ctx, func(p *core.Pair) error {
		if p.Question == "" {
			t.Fatal("Expected deserialized pair")
		}
		seen++
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachPair failed: %v", err)
	}
	if seen != 3 {
		t.Fatalf("Expected 3 pairs visited, got %d", seen)
	}
}

func TestForEachPairStopsOnError(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	for _, q := range []string{"one", "two", "three"} {
		if _, err := repo.AddPairs(ctx, &core.Pair{Question: q, Answer: "a"}); err != nil {
			t.Fatalf("Failed to add pair: %v", err)
		}
	}

	stop := errors.New("stop")
	visited := 0
	err = repo.ForEachPair(ctx, func(*core.Pair) error {
		visited++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("Expected iteration error to propagate, got %v", err)
	}
	if visited != 1 {
		t.Fatalf("Expected iteration to stop after first error, visited %d", visited)
	}
}
