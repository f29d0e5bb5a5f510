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

import "errors"

// Domain errors
var (
	// ErrArtifactMissing indicates a required serving artifact is absent.
	// The Ask operation is unavailable until artifacts are installed.
	ErrArtifactMissing = errors.New("artifact missing")

	// ErrEncoderUnavailable indicates the query encoder failed.
	// There is no statistical fallback without it.
	ErrEncoderUnavailable = errors.New("encoder unavailable")

	// ErrEmptyQuestion indicates an empty or whitespace-only question.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrInvalidPair indicates a Pair failed validation.
	ErrInvalidPair = errors.New("invalid pair")

	// ErrEmptyQuestionText indicates the Question field is empty.
	ErrEmptyQuestionText = errors.New("question text cannot be empty")

	// ErrEmptyAnswerText indicates the Answer field is empty.
	ErrEmptyAnswerText = errors.New("answer text cannot be empty")
)
