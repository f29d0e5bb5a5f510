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


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/poiesic/agroqa/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Scorer implements ai.AnswerScorer using OpenAI-compatible chat APIs.
// The model is asked to grade each candidate answer's relevance to the
// query on [0,1] and reply with a bare JSON array of numbers.
type Scorer struct {
	client llms.Model
	logger *slog.Logger
}

// newScorer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newScorer(config *ai.Config) (*Scorer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ScorerHost),
		openai.WithToken("none"),
		openai.WithModel(config.ScorerModel),
	)
	if err != nil {
		return nil, err
	}

	return &Scorer{
		client: client,
		logger: slog.Default().With("component", "openai-scorer"),
	}, nil
}

// NewScorer creates a new answer scorer using the provided configuration.
//
// Returns ai.AnswerScorer interface to enforce abstraction.
func NewScorer(config *ai.Config) (ai.AnswerScorer, error) {
	return newScorer(config)
}

// ScoreAnswers grades candidate answers against the query.
// Returns one score in [0,1] per candidate, in input order.
func (s *Scorer) ScoreAnswers(ctx context.Context, query string, answers []string) ([]float64, error) {
	if len(answers) == 0 {
		return []float64{}, nil
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(scoringSystemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(buildScoringPrompt(query, answers))},
		},
	}

	response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		s.logger.Warn("scoring call failed", "candidates", len(answers), "err", err)
		return nil, err
	}
	if len(response.Choices) < 1 {
		return nil, fmt.Errorf("scoring service returned no choices")
	}

	raw := extractJSONArray(response.Choices[0].Content)
	var scores []float64
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		s.logger.Warn("malformed scoring response", "response", raw, "err", err)
		return nil, err
	}
	if len(scores) != len(answers) {
		s.logger.Warn("score count mismatch", "want", len(answers), "got", len(scores))
		return nil, ai.ErrScoreCountMismatch
	}

	for i, v := range scores {
		scores[i] = clampScore(v)
	}
	return scores, nil
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
