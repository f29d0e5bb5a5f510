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


// Package ai provides abstractions for the AI services used in agroqa.
//
// This package defines interfaces for the two external model capabilities
// the query pipeline depends on. It follows the dependency inversion
// principle, allowing the core domain and ranking logic to depend on
// abstractions rather than concrete implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Encoder: maps query text to a unit-normalized embedding vector
//   - AnswerScorer: scores candidate answers against a query
//   - Provider: aggregates AI services for convenient initialization
//
// The scorer capability is selected once at provider construction: when no
// external scoring service is configured, the provider hands out NoopScorer
// instead of nil so callers never branch on availability per request.
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEncoder, etc.) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations.
//
//	provider, err := openai.NewProvider(config)  // returns ai.Provider
//
// Test utility constructors (mock.NewEncoder, mock.NewScorer) return
// CONCRETE types to enable test assertions and behavior injection via the
// mock's public fields (EncodeQueryFunc, ScoreAnswersFunc, CallCount).
package ai
