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


package artifact

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/poiesic/agroqa/core"
)

// Artifact file names, relative to the store directory.
const (
	AnswersFile   = "answers.idx"
	QuestionsFile = "questions.idx"
	RerankerFile  = "reranker.json"
	MetricsFile   = "metrics.json"
	EntitiesFile  = "entities.json"
)

var artifactFiles = []string{AnswersFile, QuestionsFile, RerankerFile, MetricsFile, EntitiesFile}

// Signature is a cheap staleness probe: artifact name to last-modified time.
type Signature map[string]time.Time

// Equal reports whether two signatures cover the same files with the same
// modification times.
func (sig Signature) Equal(other Signature) bool {
	if len(sig) != len(other) {
		return false
	}
	for name, mtime := range sig {
		o, ok := other[name]
		if !ok || !o.Equal(mtime) {
			return false
		}
	}
	return true
}

// Store loads serving artifacts from a directory and exposes them as
// immutable snapshots. Reload installs a fully new snapshot via atomic
// pointer swap; no reader ever observes a half-updated index and no lock
// serializes reads against a reload.
type Store struct {
	dir      string
	override *core.TuningParams
	snapshot atomic.Pointer[Snapshot]
	reloadMu sync.Mutex // serializes concurrent reload requests only
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTuningOverride pins tuning parameters instead of deriving them from
// the stored recall metric. Values are clamped to [0,1].
func WithTuningOverride(params core.TuningParams) Option {
	return func(s *Store) {
		clamped := params.Clamp()
		s.override = &clamped
	}
}

// NewStore creates a store over the given artifact directory.
// Call Load before serving queries.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:    dir,
		logger: slog.Default().With("component", "artifact-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signature computes the composite mtime fingerprint of the artifact
// directory. Only files that exist contribute.
func (s *Store) Signature() Signature {
	sig := make(Signature, len(artifactFiles))
	for _, name := range artifactFiles {
		info, err := os.Stat(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		sig[name] = info.ModTime()
	}
	return sig
}

// Load reads the embedding index and optional companions and installs the
// initial snapshot. Fails with core.ErrArtifactMissing if the answer index
// is absent; the host process stays up with the query endpoint disabled.
func (s *Store) Load() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	snap, err := s.build()
	if err != nil {
		return err
	}
	s.snapshot.Store(snap)
	s.logger.Info("artifacts loaded",
		"answers", snap.Answers.Len(),
		"questions", snap.Questions.Len(),
		"mode", snapshotMode(snap),
		"alpha", snap.Tuning.Alpha,
		"minCosine", snap.Tuning.MinCosine)
	return nil
}

// Reload re-reads artifacts if their signature changed. Returns true if a
// new snapshot was installed. A no-op when nothing changed. On failure the
// previous snapshot stays installed.
func (s *Store) Reload() (bool, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if current := s.snapshot.Load(); current != nil {
		if s.Signature().Equal(current.Signature) {
			s.logger.Debug("artifact signature unchanged, reload skipped")
			return false, nil
		}
	}

	snap, err := s.build()
	if err != nil {
		return false, err
	}
	s.snapshot.Store(snap)
	s.logger.Info("artifacts reloaded", "answers", snap.Answers.Len(), "mode", snapshotMode(snap))
	return true, nil
}

// Snapshot returns the current snapshot, or nil if Load has not succeeded.
func (s *Store) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// build assembles a complete snapshot from disk. The signature is captured
// before reading so a concurrent artifact swap shows up as stale on the
// next probe rather than being missed.
func (s *Store) build() (*Snapshot, error) {
	sig := s.Signature()

	answers, err := ReadIndexFile(filepath.Join(s.dir, AnswersFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrArtifactMissing, AnswersFile)
		}
		return nil, err
	}

	snap := &Snapshot{
		Answers:   answers,
		Signature: sig,
		LoadedAt:  time.Now(),
	}

	questions, err := ReadIndexFile(filepath.Join(s.dir, QuestionsFile))
	switch {
	case err == nil:
		snap.Questions = questions
	case os.IsNotExist(err):
		// answer-index mode
	default:
		s.logger.Warn("question index unreadable, serving in answer mode", "err", err)
	}

	snap.Reranker = s.loadReranker()
	snap.Metrics = s.loadMetrics()
	snap.Entities = s.loadEntities()
	snap.Tuning = s.deriveTuning(snap.Metrics)

	return snap, nil
}

// loadReranker reads the optional learned-reranker bundle. Any problem
// disables the stage rather than failing the load.
func (s *Store) loadReranker() *RerankerBundle {
	data, err := os.ReadFile(filepath.Join(s.dir, RerankerFile))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("reranker bundle unreadable", "err", err)
		}
		return nil
	}

	var bundle RerankerBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		s.logger.Warn("reranker bundle malformed, stage disabled", "err", err)
		return nil
	}
	if err := validateReranker(&bundle); err != nil {
		s.logger.Warn("reranker bundle invalid, stage disabled", "err", err)
		return nil
	}
	return &bundle
}

func validateReranker(b *RerankerBundle) error {
	if len(b.FeatureWeights) != 2 {
		return fmt.Errorf("%w: expected 2 feature weights, got %d", ErrInvalidReranker, len(b.FeatureWeights))
	}
	if len(b.TermWeights) == 0 {
		return fmt.Errorf("%w: empty term weight vocabulary", ErrInvalidReranker)
	}
	return nil
}

// loadMetrics reads the persisted offline evaluation metrics, if present.
func (s *Store) loadMetrics() json.RawMessage {
	data, err := os.ReadFile(filepath.Join(s.dir, MetricsFile))
	if err != nil {
		return nil
	}
	if !json.Valid(data) {
		s.logger.Warn("metrics artifact is not valid JSON, ignored")
		return nil
	}
	return json.RawMessage(data)
}

// loadEntities reads the optional known-entity catalog.
func (s *Store) loadEntities() []core.Entity {
	data, err := os.ReadFile(filepath.Join(s.dir, EntitiesFile))
	if err != nil {
		return nil
	}
	var entities []core.Entity
	if err := json.Unmarshal(data, &entities); err != nil {
		s.logger.Warn("entity catalog malformed, shortcut disabled", "err", err)
		return nil
	}
	return entities
}

// deriveTuning resolves tuning parameters: explicit override wins, else the
// stored recall@1 metric picks a tier, else the conservative default.
func (s *Store) deriveTuning(metrics json.RawMessage) core.TuningParams {
	if s.override != nil {
		return *s.override
	}

	var probe struct {
		RecallAt1 float64 `json:"recall_at_1"`
	}
	if metrics != nil {
		if err := json.Unmarshal(metrics, &probe); err != nil {
			s.logger.Warn("metrics artifact missing recall_at_1, using defaults", "err", err)
		}
	}
	return core.DeriveTuning(probe.RecallAt1)
}

func snapshotMode(snap *Snapshot) string {
	_, mode := snap.ActiveIndex()
	return mode.String()
}
