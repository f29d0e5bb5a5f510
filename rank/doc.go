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

// Package rank implements the hybrid retrieval-ranking pipeline: dense
// retrieval over an artifact index, lexical blending, an optional learned
// reranking pass over the head of the pool, an optional LLM scoring pass,
// and low-confidence annotation of the best answer.
//
// Ranking stages mutate a shared candidate slice in place. Each stage is
// independently skippable: a missing reranker bundle or an unavailable
// scorer degrades the pipeline to the stages before it rather than failing
// the query.
package rank
