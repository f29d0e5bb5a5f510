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
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/poiesic/agroqa/artifact"
	"github.com/poiesic/agroqa/core"
	"github.com/poiesic/agroqa/corpus"
)

// Exporter builds serving artifacts from the stored corpus. The answer
// index carries every embedded pair; the question index carries the subset
// whose questions were embedded, since the serving side prefers it only
// when present.
type Exporter struct {
	repository corpus.PairRepository
	logger     *slog.Logger
}

// NewExporter creates an exporter over the corpus.
func NewExporter(repository corpus.PairRepository, logger *slog.Logger) (*Exporter, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{repository: repository, logger: logger}, nil
}

// BuildIndexes assembles the answer and question indexes from stored
// pairs. Pairs without an answer vector are skipped with a warning; the
// question index may come back empty. Vectors are re-normalized so the
// serving dot product stays a cosine even if older corpus entries predate
// normalization at ingest.
func (e *Exporter) BuildIndexes(ctx context.Context) (answers, questions *artifact.Index, err error) {
	answers = &artifact.Index{}
	questions = &artifact.Index{}
	skipped := 0

	err = e.repository.ForEachPair(ctx, func(pair *core.Pair) error {
		if len(pair.AnswerVector) == 0 {
			skipped++
			return nil
		}

		if answers.Dim == 0 {
			answers.Dim = len(pair.AnswerVector)
		}
		if len(pair.AnswerVector) != answers.Dim {
			return fmt.Errorf("%w: pair %d has %d dims, index has %d",
				ErrDimensionMismatch, pair.Id, len(pair.AnswerVector), answers.Dim)
		}

		answers.Entries = append(answers.Entries, artifact.IndexEntry{
			Text:   pair.Answer,
			Answer: pair.Answer,
			Vector: core.NormalizeVector(pair.AnswerVector),
		})

		if len(pair.QuestionVector) == 0 {
			return nil
		}
		if questions.Dim == 0 {
			questions.Dim = len(pair.QuestionVector)
		}
		if len(pair.QuestionVector) != questions.Dim {
			return fmt.Errorf("%w: pair %d question has %d dims, index has %d",
				ErrDimensionMismatch, pair.Id, len(pair.QuestionVector), questions.Dim)
		}

		questions.Entries = append(questions.Entries, artifact.IndexEntry{
			Text:   pair.Question,
			Answer: pair.Answer,
			Vector: core.NormalizeVector(pair.QuestionVector),
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if skipped > 0 {
		e.logger.Warn("pairs without embeddings skipped during export", "count", skipped)
	}
	if len(answers.Entries) == 0 {
		return nil, nil, ErrEmptyCorpus
	}
	return answers, questions, nil
}

// Export builds the indexes and publishes them atomically under dir. The
// question index file is written only when at least one question was
// embedded, matching the serving side's optional-artifact handling.
func (e *Exporter) Export(ctx context.Context, dir string) error {
	answers, questions, err := e.BuildIndexes(ctx)
	if err != nil {
		return err
	}

	if err := artifact.WriteIndexFile(filepath.Join(dir, artifact.AnswersFile), answers); err != nil {
		return err
	}
	e.logger.Info("answer index exported", "entries", len(answers.Entries), "dim", answers.Dim)

	if len(questions.Entries) > 0 {
		if err := artifact.WriteIndexFile(filepath.Join(dir, artifact.QuestionsFile), questions); err != nil {
			return err
		}
		e.logger.Info("question index exported", "entries", len(questions.Entries), "dim", questions.Dim)
	}
	return nil
}
