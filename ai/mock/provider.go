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


package mock

import "github.com/poiesic/agroqa/ai"

// Provider is a test double for ai.Provider.
// It aggregates mock encoder and scorer instances.
type Provider struct {
	encoder *Encoder
	scorer  *Scorer
}

// NewProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetEncoder()/GetScorer() to access concrete types for test assertions.
func NewProvider() ai.Provider {
	return &Provider{
		encoder: NewEncoder(),
		scorer:  NewScorer(),
	}
}

// NewProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewProviderWithServices(encoder *Encoder, scorer *Scorer) ai.Provider {
	return &Provider{
		encoder: encoder,
		scorer:  scorer,
	}
}

// Encoder returns the mock encoder.
func (p *Provider) Encoder() ai.Encoder {
	return p.encoder
}

// AnswerScorer returns the mock scorer.
func (p *Provider) AnswerScorer() ai.AnswerScorer {
	return p.scorer
}

// Close is a no-op for mock provider.
func (p *Provider) Close() error {
	return nil
}

// GetEncoder returns the underlying mock encoder for test assertions.
func (p *Provider) GetEncoder() *Encoder {
	return p.encoder
}

// GetScorer returns the underlying mock scorer for test assertions.
func (p *Provider) GetScorer() *Scorer {
	return p.scorer
}
