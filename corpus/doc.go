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


// Package corpus provides the storage abstraction for the question/answer
// corpus that ingestion writes and artifact export reads.
//
// The package defines the repository interface; the badger subpackage
// implements it. Constructors in the implementation package return the
// interface so consumers never couple to BadgerDB specifics and tests can
// substitute fakes without modification.
//
// Pairs use content-based IDs (core.PairID), so ingestion is idempotent:
// re-adding an existing pair refreshes it in place instead of duplicating.
// Serialization uses the MUS binary format for compact storage of the
// embedded vectors.
package corpus
