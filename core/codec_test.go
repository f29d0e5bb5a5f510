package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDRoundTrip(t *testing.T) {
	ids := []ID{0, 1, 255, 65536, ID(1) << 62}

	for _, id := range ids {
		buf := make([]byte, IDMUS.Size(id))
		n := IDMUS.Marshal(id, buf)
		assert.Equal(t, len(buf), n)

		got, n, err := IDMUS.Unmarshal(buf)
		require.NoError(t, err)
		assert.Equal(t, len(buf), n)
		assert.Equal(t, id, got)
	}
}

func TestPairRoundTrip(t *testing.T) {
	pair := Pair{
		Id:             PairID("q", "a"),
		Question:       "How deep should I plant potatoes?",
		Answer:         "Plant seed potatoes 10 cm deep, 30 cm apart.",
		QuestionVector: []float32{0.1, -0.5, 0.86},
		AnswerVector:   []float32{0.0, 1.0, 0.0},
		InsertedAt:     time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
		UpdatedAt:      time.Date(2025, 3, 11, 9, 30, 0, 0, time.UTC),
		Metadata:       map[string]string{"source": "faq", "crop": "potato"},
	}

	buf := make([]byte, PairMUS.Size(pair))
	n := PairMUS.Marshal(pair, buf)
	require.Equal(t, len(buf), n)

	got, n, err := PairMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, pair, got)
}

func TestPairRoundTripMinimal(t *testing.T) {
	pair := Pair{
		Question:   "q",
		Answer:     "a",
		InsertedAt: time.UnixMicro(0).UTC(),
		UpdatedAt:  time.UnixMicro(0).UTC(),
	}

	buf := make([]byte, PairMUS.Size(pair))
	PairMUS.Marshal(pair, buf)

	got, _, err := PairMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, pair, got)
}

func TestPairMarshalIsDeterministic(t *testing.T) {
	pair := Pair{
		Question:   "q",
		Answer:     "a",
		InsertedAt: time.UnixMicro(1).UTC(),
		UpdatedAt:  time.UnixMicro(2).UTC(),
		Metadata:   map[string]string{"b": "2", "a": "1", "c": "3"},
	}

	first := make([]byte, PairMUS.Size(pair))
	PairMUS.Marshal(pair, first)

	for i := 0; i < 10; i++ {
		again := make([]byte, PairMUS.Size(pair))
		PairMUS.Marshal(pair, again)
		require.Equal(t, first, again)
	}
}

func TestPairUnmarshalTruncated(t *testing.T) {
	pair := Pair{
		Question:       "question",
		Answer:         "answer",
		QuestionVector: []float32{0.5, 0.5},
		InsertedAt:     time.UnixMicro(0).UTC(),
		UpdatedAt:      time.UnixMicro(0).UTC(),
	}
	buf := make([]byte, PairMUS.Size(pair))
	PairMUS.Marshal(pair, buf)

	_, _, err := PairMUS.Unmarshal(buf[:len(buf)/2])
	assert.Error(t, err)
}
