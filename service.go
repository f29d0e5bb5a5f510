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


package agroqa

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/poiesic/agroqa/ai"
	"github.com/poiesic/agroqa/artifact"
	"github.com/poiesic/agroqa/cache"
	"github.com/poiesic/agroqa/core"
	"github.com/poiesic/agroqa/entity"
	"github.com/poiesic/agroqa/rank"
)

// Service is the question-answering facade: one explicit object owning the
// artifact store, the ranking pipeline, the entity shortcut and the result
// cache. Construct it once and inject it into request handlers.
type Service struct {
	store    *artifact.Store
	provider ai.Provider
	pipeline *rank.Pipeline
	results  *cache.ResultCache
	matcher  atomic.Pointer[entity.Matcher]
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	logger        *slog.Logger
	cacheCapacity int
	storeOpts     []artifact.Option
	pipelineOpts  []rank.Option
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCacheCapacity bounds the result cache.
// Default is cache.DefaultCapacity.
func WithCacheCapacity(capacity int) ServiceOption {
	return func(o *serviceOptions) {
		o.cacheCapacity = capacity
	}
}

// WithStoreOptions forwards options to the artifact store.
func WithStoreOptions(opts ...artifact.Option) ServiceOption {
	return func(o *serviceOptions) {
		o.storeOpts = append(o.storeOpts, opts...)
	}
}

// WithPipelineOptions forwards options to the ranking pipeline.
func WithPipelineOptions(opts ...rank.Option) ServiceOption {
	return func(o *serviceOptions) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}

// NewService wires a service over an artifact directory and an AI provider.
// Call Load before serving queries.
func NewService(artifactDir string, provider ai.Provider, opts ...ServiceOption) (*Service, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}

	options := &serviceOptions{
		logger:        slog.Default(),
		cacheCapacity: cache.DefaultCapacity,
	}
	for _, opt := range opts {
		opt(options)
	}

	storeOpts := append([]artifact.Option{artifact.WithLogger(options.logger)}, options.storeOpts...)
	pipelineOpts := append([]rank.Option{rank.WithLogger(options.logger)}, options.pipelineOpts...)

	pipeline, err := rank.NewPipeline(provider.Encoder(), provider.AnswerScorer(), pipelineOpts...)
	if err != nil {
		return nil, err
	}

	return &Service{
		store:    artifact.NewStore(artifactDir, storeOpts...),
		provider: provider,
		pipeline: pipeline,
		results:  cache.New(options.cacheCapacity),
		logger:   options.logger,
	}, nil
}

// Load reads the serving artifacts and builds the entity shortcut.
// Fails with core.ErrArtifactMissing when the answer index is absent; the
// caller decides whether to keep the process up with queries disabled.
func (s *Service) Load() error {
	if err := s.store.Load(); err != nil {
		return err
	}
	s.rebuildMatcher(s.store.Snapshot())
	return nil
}

// Ask answers one question with up to topK ranked results. The flow is
// entity shortcut, then cache, then the full pipeline; cache entries are
// inserted only after a fully successful pipeline run.
func (s *Service) Ask(ctx context.Context, question string, topK int) ([]core.Result, error) {
	if err := core.ValidateQuestion(question); err != nil {
		return nil, err
	}
	topK = core.ClampTopK(topK)

	snap := s.store.Snapshot()
	if snap == nil {
		return nil, fmt.Errorf("%w: artifacts not loaded", core.ErrArtifactMissing)
	}

	if matcher := s.matcher.Load(); matcher != nil {
		if result, ok := matcher.Match(question); ok {
			s.logger.Debug("entity shortcut hit", "question", question)
			return []core.Result{result}, nil
		}
	}

	key := cache.Key(question, topK)
	if results, ok := s.results.Get(key); ok {
		s.logger.Debug("result cache hit", "question", question, "topK", topK)
		return results, nil
	}

	results, err := s.pipeline.Run(ctx, snap, question, topK)
	if err != nil {
		return nil, err
	}

	s.results.Put(key, results)
	return results, nil
}

// ReloadStatus reports the outcome of a reload request.
type ReloadStatus struct {
	Reloaded    bool    `json:"ok"`
	AnswerCount int     `json:"answerCount"`
	Alpha       float64 `json:"alpha"`
	MinCosine   float64 `json:"minCos"`
}

// Reload re-reads artifacts when stale. On an installed snapshot the result
// cache is cleared and the entity shortcut rebuilt; an unchanged signature
// leaves both intact.
func (s *Service) Reload() (ReloadStatus, error) {
	changed, err := s.store.Reload()
	if err != nil {
		return ReloadStatus{}, err
	}

	snap := s.store.Snapshot()
	if changed {
		s.results.Clear()
		s.rebuildMatcher(snap)
	}

	status := ReloadStatus{Reloaded: changed}
	if snap != nil {
		status.AnswerCount = snap.AnswerCount()
		status.Alpha = snap.Tuning.Alpha
		status.MinCosine = snap.Tuning.MinCosine
	}
	return status, nil
}

// Metrics returns the persisted offline evaluation metrics, if any.
func (s *Service) Metrics() (json.RawMessage, bool) {
	snap := s.store.Snapshot()
	if snap == nil || snap.Metrics == nil {
		return nil, false
	}
	return snap.Metrics, true
}

// Ready reports whether artifacts are loaded and queries can be served.
func (s *Service) Ready() bool {
	return s.store.Snapshot() != nil
}

// Close releases the AI provider.
func (s *Service) Close() error {
	return s.provider.Close()
}

func (s *Service) rebuildMatcher(snap *artifact.Snapshot) {
	if snap == nil || len(snap.Entities) == 0 {
		s.matcher.Store(nil)
		return
	}
	matcher := entity.NewMatcher(snap.Entities)
	s.matcher.Store(matcher)
	s.logger.Debug("entity shortcut rebuilt", "entities", matcher.Size())
}
