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
	"log/slog"

	"github.com/poiesic/agroqa/ai"
)

// Provider implements ai.Provider using OpenAI-compatible services.
// It manages encoder and answer-scorer instances.
type Provider struct {
	config  *ai.Config
	encoder *Encoder
	scorer  ai.AnswerScorer
	logger  *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use. When no scorer host is
// configured the provider selects a no-op scorer, so the rerank stage is
// disabled without per-request availability checks.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	encoder, err := newEncoder(config)
	if err != nil {
		return nil, err
	}

	var scorer ai.AnswerScorer = ai.NoopScorer{}
	if config.ScorerHost != "" {
		s, err := newScorer(config)
		if err != nil {
			return nil, err
		}
		scorer = s
	}

	return &Provider{
		config:  config,
		encoder: encoder,
		scorer:  scorer,
		logger:  slog.Default().With("component", "openai-provider"),
	}, nil
}

// Encoder returns the query encoding service.
func (p *Provider) Encoder() ai.Encoder {
	return p.encoder
}

// AnswerScorer returns the answer scoring service.
func (p *Provider) AnswerScorer() ai.AnswerScorer {
	return p.scorer
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
