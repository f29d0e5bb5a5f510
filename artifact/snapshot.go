package artifact

import (
	"encoding/json"
	"time"

	"github.com/poiesic/agroqa/core"
)

// IndexMode identifies which embedding space a snapshot serves queries from.
// The choice is explicit so callers (and tests) can observe it rather than
// inferring it from downstream scores.
type IndexMode int

const (
	// AnswerMode matches query embeddings against answer embeddings.
	AnswerMode IndexMode = iota + 1
	// QuestionMode matches query embeddings against question embeddings.
	// Preferred when available: query-to-question similarity is empirically
	// sharper than query-to-answer similarity.
	QuestionMode
)

// String returns the mode name for logs.
func (m IndexMode) String() string {
	switch m {
	case AnswerMode:
		return "answer"
	case QuestionMode:
		return "question"
	default:
		return "unknown"
	}
}

// IndexEntry is one indexed item: the text whose embedding was stored, and
// the answer to return when it matches. In answer mode Text and Answer are
// the same string.
type IndexEntry struct {
	Text   string
	Answer string
	Vector []float32
}

// Index is an ordered sequence of unit-L2-normalized vectors paired 1:1
// with answers. Order is significant: ties in similarity break toward the
// lower index.
type Index struct {
	Dim     int
	Entries []IndexEntry
}

// Len returns the number of indexed entries.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.Entries)
}

// RerankerBundle is a learned reranking model: a sparse term-weight
// vocabulary (the text-to-feature capability) and a linear scoring head
// (the feature-matrix-to-score capability). Loaded wholesale on reload,
// never mutated in place.
type RerankerBundle struct {
	Version        string             `json:"version"`
	TermWeights    map[string]float64 `json:"term_weights"`
	FeatureWeights []float64          `json:"feature_weights"`
	Bias           float64            `json:"bias"`
}

// Snapshot is one immutable generation of serving state. Concurrent queries
// read a snapshot freely; reload installs a replacement via atomic pointer
// swap, so in-flight queries keep the generation they started with.
type Snapshot struct {
	Answers   *Index
	Questions *Index
	Reranker  *RerankerBundle
	Entities  []core.Entity
	Tuning    core.TuningParams
	Metrics   json.RawMessage
	Signature Signature
	LoadedAt  time.Time
}

// ActiveIndex returns the index queries run against and which mode that is.
func (s *Snapshot) ActiveIndex() (*Index, IndexMode) {
	if s.Questions.Len() > 0 {
		return s.Questions, QuestionMode
	}
	return s.Answers, AnswerMode
}

// AnswerCount reports the number of answers in the primary index.
func (s *Snapshot) AnswerCount() int {
	return s.Answers.Len()
}
