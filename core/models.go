package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so that identical
// question/answer pairs map to the same record.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Pair is a single question/answer record in the corpus.
// Vectors are populated by the ingestion pipeline and are unit-L2-normalized,
// so a dot product against another unit vector is a cosine similarity.
type Pair struct {
	Id             ID
	Question       string
	Answer         string
	QuestionVector []float32
	AnswerVector   []float32
	InsertedAt     time.Time
	UpdatedAt      time.Time
	Metadata       map[string]string
}

// PairID returns the content-based ID for a question/answer pair.
func PairID(question, answer string) ID {
	return IDFromContent(question + "\x1f" + answer)
}

// Result is one ranked answer returned by the pipeline.
type Result struct {
	Rank   int     `json:"rank"`
	Score  float64 `json:"score"`
	Answer string  `json:"answer"`
}

// Entity is one entry in the known-entity catalog.
// Attributes hold scalar or string facts about the entity, e.g.
// {"soil_ph": "6.0-6.8", "water_need": "medium"}.
type Entity struct {
	Name       string            `json:"name"`
	Category   string            `json:"category"`
	Attributes map[string]string `json:"attributes"`
}
