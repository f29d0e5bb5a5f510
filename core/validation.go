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


package core

import (
	"fmt"
	"strings"
)

// Bounds for the number of results a caller may request.
const (
	DefaultTopK = 5
	MinTopK     = 1
	MaxTopK     = 20
)

// ValidatePair validates a Pair according to domain rules.
//
// Validation rules:
//   - Question must not be empty
//   - Answer must not be empty
//
// NOT validated (populated by the ingestion pipeline):
//   - QuestionVector / AnswerVector (can be empty until embedded)
//   - ID (derived from content on insert)
func ValidatePair(pair *Pair) error {
	if pair == nil {
		return fmt.Errorf("%w: pair is nil", ErrInvalidPair)
	}

	if pair.Question == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPair, ErrEmptyQuestionText)
	}

	if pair.Answer == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPair, ErrEmptyAnswerText)
	}

	return nil
}

// ValidateQuestion rejects empty or whitespace-only query text.
func ValidateQuestion(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyQuestion
	}
	return nil
}

// ClampTopK clamps a requested result count to [MinTopK, MaxTopK].
// Zero or negative values fall back to DefaultTopK.
func ClampTopK(k int) int {
	if k <= 0 {
		return DefaultTopK
	}
	if k < MinTopK {
		return MinTopK
	}
	if k > MaxTopK {
		return MaxTopK
	}
	return k
}
