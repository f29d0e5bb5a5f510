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

package entity

import (
	"sort"
	"strings"

	"github.com/poiesic/agroqa/core"
)

// Matcher answers queries that name a cataloged entity directly, bypassing
// retrieval entirely. Exact domain recognition beats statistical ranking
// when it applies, so a hit is returned at full confidence.
//
// A Matcher is immutable after construction; build a new one per catalog
// generation.
type Matcher struct {
	entries []entry
}

type entry struct {
	normalized string
	words      int
	entity     core.Entity
}

// NewMatcher builds a matcher over the catalog. Entities whose names
// normalize to nothing are dropped.
func NewMatcher(entities []core.Entity) *Matcher {
	entries := make([]entry, 0, len(entities))
	for _, e := range entities {
		normalized := Normalize(e.Name)
		if normalized == "" {
			continue
		}
		entries = append(entries, entry{
			normalized: normalized,
			words:      len(strings.Fields(normalized)),
			entity:     e,
		})
	}

	// Longest name first: a compound entity ("sweet corn") must win over
	// any of its word-level substrings ("corn").
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].words != entries[j].words {
			return entries[i].words > entries[j].words
		}
		return len(entries[i].normalized) > len(entries[j].normalized)
	})

	return &Matcher{entries: entries}
}

// Size returns the number of usable catalog entries.
func (m *Matcher) Size() int {
	return len(m.entries)
}

// Match scans the query for a cataloged entity name as whole words and, on
// a hit, returns the synthesized answer for the longest matching name.
func (m *Matcher) Match(query string) (core.Result, bool) {
	normalized := Normalize(query)
	if normalized == "" {
		return core.Result{}, false
	}

	queryWords := strings.Fields(normalized)
	for _, e := range m.entries {
		if containsPhrase(queryWords, strings.Fields(e.normalized)) {
			return core.Result{
				Rank:   1,
				Score:  1.0,
				Answer: Synthesize(e.entity),
			}, true
		}
	}
	return core.Result{}, false
}

// Normalize lowercases text, maps non-alphanumerics to spaces and collapses
// runs of whitespace to single spaces.
func Normalize(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return ' '
		}
	}, text)
	return strings.Join(strings.Fields(cleaned), " ")
}

// containsPhrase reports whether phrase occurs in words as a contiguous
// whole-word run.
func containsPhrase(words, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(words) {
		return false
	}
	for i := 0; i+len(phrase) <= len(words); i++ {
		matched := true
		for j, p := range phrase {
			if words[i+j] != p {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// Synthesize renders an entity card as the answer text: the name, its
// category, then attributes in stable key order.
func Synthesize(e core.Entity) string {
	var b strings.Builder
	b.WriteString(e.Name)
	if e.Category != "" {
		b.WriteString(" (")
		b.WriteString(e.Category)
		b.WriteString(")")
	}

	if len(e.Attributes) == 0 {
		return b.String()
	}

	keys := make([]string, 0, len(e.Attributes))
	for k := range e.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteString(":")
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(k, "_", " "))
		b.WriteString(": ")
		b.WriteString(e.Attributes[k])
		b.WriteString(";")
	}
	return strings.TrimSuffix(b.String(), ";")
}
