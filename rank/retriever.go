package rank

import (
	"sort"

	"github.com/poiesic/agroqa/artifact"
	"github.com/poiesic/agroqa/core"
)

// Candidate is one pooled answer flowing through the ranking stages.
// Similarity is the raw index cosine and never changes; Final accumulates
// the blend and rerank adjustments.
type Candidate struct {
	// Index is the entry's position in the embedding index. Lower index
	// wins similarity ties, which keeps retrieval deterministic.
	Index int

	// Similarity is the raw dot product against the query vector.
	Similarity float64

	// Text is the indexed text the similarity was computed against
	// (question text in question mode, answer text otherwise). The lexical
	// signal measures query coverage of this text.
	Text string

	// Answer is what the caller receives if this candidate ranks.
	Answer string

	// Overlap is the lexical query-coverage score, filled by Blend.
	Overlap float64

	// Final is the candidate's current score after the latest stage.
	Final float64
}

// PoolSize returns how many candidates retrieval keeps for downstream
// stages: wide enough that reranking has room to work.
func PoolSize(topK int) int {
	if n := 5 * topK; n > 50 {
		return n
	}
	return 50
}

// Retrieve brute-force scores every indexed vector against the query and
// returns up to poolSize candidates sorted by strictly non-increasing raw
// similarity; ties break toward the lower index.
func Retrieve(index *artifact.Index, queryVector []float32, poolSize int) []Candidate {
	if index.Len() == 0 || poolSize <= 0 {
		return nil
	}

	candidates := make([]Candidate, 0, index.Len())
	for i, entry := range index.Entries {
		candidates = append(candidates, Candidate{
			Index:      i,
			Similarity: core.Dot(queryVector, entry.Vector),
			Text:       entry.Text,
			Answer:     entry.Answer,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		return candidates[i].Index < candidates[j].Index
	})

	if len(candidates) > poolSize {
		candidates = candidates[:poolSize]
	}
	return candidates
}
