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


package ingest

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/agroqa/ai"
	"github.com/poiesic/agroqa/core"
	"github.com/poiesic/agroqa/corpus"
)

const (
	defaultBatchSize   = 32
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
)

// Pipeline ingests question/answer pairs into the corpus and embeds them.
// Embedding runs in batches on a worker pool; an Ingest call returns once
// every batch of the call has been embedded and stored.
type Pipeline struct {
	repository  corpus.PairRepository
	encoder     ai.Encoder
	pool        *ants.Pool
	batchSize   int
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many pairs are embedded per encoder call.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size >= 1 {
			p.batchSize = size
		}
		return nil
	}
}

// WithRetry configures embedding retry behavior.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.baseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(repository corpus.PairRepository, encoder ai.Encoder, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if encoder == nil {
		return nil, ErrEncoderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository:  repository,
		encoder:     encoder,
		pool:        pool,
		batchSize:   defaultBatchSize,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest stores pairs and embeds their questions and answers in concurrent
// batches. Returns after every batch has completed; batch failures are
// joined into the returned error but do not abort the remaining batches.
func (p *Pipeline) Ingest(ctx context.Context, pairs []*core.Pair) error {
	if len(pairs) == 0 {
		return nil
	}

	added, err := p.repository.AddPairs(ctx, pairs...)
	if err != nil {
		return err
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		batchErrs []error
	)

	for start := 0; start < len(added); start += p.batchSize {
		end := start + p.batchSize
		if end > len(added) {
			end = len(added)
		}
		batch := added[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if err := p.embedBatch(ctx, batch); err != nil {
				p.logger.Error("error embedding batch", "size", len(batch), "err", err)
				mu.Lock()
				batchErrs = append(batchErrs, err)
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			batchErrs = append(batchErrs, submitErr)
			mu.Unlock()
		}
	}

	wg.Wait()
	return errors.Join(batchErrs...)
}

// embedBatch encodes a batch's questions and answers and stores the
// refreshed pairs. Vectors come back unit-normalized from the encoder.
func (p *Pipeline) embedBatch(ctx context.Context, batch []*core.Pair) error {
	questions := make([]string, len(batch))
	answers := make([]string, len(batch))
	for i, pair := range batch {
		questions[i] = pair.Question
		answers[i] = pair.Answer
	}

	var questionVectors, answerVectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		questionVectors, err = p.encoder.EncodeBatch(ctx, questions)
		return err
	}, p.maxAttempts, p.baseDelay)
	if err != nil {
		return err
	}

	err = RetryWithBackoff(ctx, func() error {
		var err error
		answerVectors, err = p.encoder.EncodeBatch(ctx, answers)
		return err
	}, p.maxAttempts, p.baseDelay)
	if err != nil {
		return err
	}

	for i, pair := range batch {
		pair.QuestionVector = questionVectors[i]
		pair.AnswerVector = answerVectors[i]
	}

	_, err = p.repository.AddPairs(ctx, batch...)
	return err
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
