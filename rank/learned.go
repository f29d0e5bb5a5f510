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


package rank

import (
	"log/slog"
	"sort"

	"github.com/poiesic/agroqa/artifact"
)

const (
	learnedBlendedWeight = 0.85
	learnedModelWeight   = 0.15
)

// LearnedPrefix returns how many blended candidates the learned reranker
// refines.
func LearnedPrefix(topK int) int {
	if n := 4 * topK; n > 20 {
		return n
	}
	return 20
}

// ApplyLearned refines the top of the blended ranking with the learned
// model and reports whether it ran. A nil or unusable bundle keeps the
// blended order; this stage is never fatal.
//
// Per candidate the model sees two features:
//
//  1. the elementwise-product-sum of sparse term-weight vectors for query
//     and candidate text — a cosine-similarity proxy, deliberately left
//     unnormalized because the model was trained on exactly this quantity
//  2. token-set Jaccard similarity
//
// Model outputs are min-max normalized within the batch; cross-query model
// scores are not comparable by design.
func ApplyLearned(bundle *artifact.RerankerBundle, queryTokens map[string]bool, candidates []Candidate, topK int, logger *slog.Logger) bool {
	if bundle == nil || len(candidates) == 0 {
		return false
	}
	if len(bundle.FeatureWeights) != 2 {
		logger.Warn("learned reranker skipped: malformed feature weights", "len", len(bundle.FeatureWeights))
		return false
	}

	prefix := LearnedPrefix(topK)
	if prefix > len(candidates) {
		prefix = len(candidates)
	}

	raw := make([]float64, prefix)
	for i := 0; i < prefix; i++ {
		candTokens := Tokenize(candidates[i].Text)
		proxy := termWeightDot(bundle.TermWeights, queryTokens, candTokens)
		jaccard := Jaccard(queryTokens, candTokens)
		raw[i] = bundle.FeatureWeights[0]*proxy + bundle.FeatureWeights[1]*jaccard + bundle.Bias
	}

	normalized := minMaxNormalize(raw)
	for i := 0; i < prefix; i++ {
		candidates[i].Final = learnedBlendedWeight*candidates[i].Final + learnedModelWeight*normalized[i]
	}

	sort.SliceStable(candidates[:prefix], func(i, j int) bool {
		return candidates[i].Final > candidates[j].Final
	})
	return true
}

// termWeightDot computes the sparse dot product of the term-weighted
// vectors for two token sets: shared terms contribute weight squared.
func termWeightDot(weights map[string]float64, a, b map[string]bool) float64 {
	var sum float64
	for token := range a {
		if !b[token] {
			continue
		}
		if w, ok := weights[token]; ok {
			sum += w * w
		}
	}
	return sum
}

// minMaxNormalize rescales scores into [0,1] within the batch. A constant
// batch normalizes to zeros, which leaves the blended order untouched.
func minMaxNormalize(scores []float64) []float64 {
	if len(scores) == 0 {
		return scores
	}

	lo, hi := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}

	out := make([]float64, len(scores))
	if hi == lo {
		return out
	}
	for i, s := range scores {
		out[i] = (s - lo) / (hi - lo)
	}
	return out
}
