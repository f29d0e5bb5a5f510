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
	"sort"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// IDMUS serializes IDs in the MUS binary format.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

// PairMUS serializes Pairs in the MUS binary format. Timestamps are stored
// as Unix microseconds.
var PairMUS = pairMUS{}

type pairMUS struct{}

func (pairMUS) Marshal(p Pair, bs []byte) (n int) {
	n = IDMUS.Marshal(p.Id, bs)
	n += ord.String.Marshal(p.Question, bs[n:])
	n += ord.String.Marshal(p.Answer, bs[n:])
	n += marshalVector(p.QuestionVector, bs[n:])
	n += marshalVector(p.AnswerVector, bs[n:])
	n += varint.Int64.Marshal(p.InsertedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(p.UpdatedAt.UnixMicro(), bs[n:])
	n += varint.Int.Marshal(len(p.Metadata), bs[n:])
	for _, k := range sortedKeys(p.Metadata) {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(p.Metadata[k], bs[n:])
	}
	return n
}

func (pairMUS) Unmarshal(bs []byte) (p Pair, n int, err error) {
	var n1 int
	p.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	p.Question, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.Answer, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.QuestionVector, n1, err = unmarshalVector(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.AnswerVector, n1, err = unmarshalVector(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.InsertedAt = time.UnixMicro(micros).UTC()

	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.UpdatedAt = time.UnixMicro(micros).UTC()

	var count int
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count > 0 {
		p.Metadata = make(map[string]string, count)
		for i := 0; i < count; i++ {
			var k, v string
			k, n1, err = ord.String.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
			v, n1, err = ord.String.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
			p.Metadata[k] = v
		}
	}
	return
}

func (pairMUS) Size(p Pair) int {
	size := IDMUS.Size(p.Id)
	size += ord.String.Size(p.Question)
	size += ord.String.Size(p.Answer)
	size += sizeVector(p.QuestionVector)
	size += sizeVector(p.AnswerVector)
	size += varint.Int64.Size(p.InsertedAt.UnixMicro())
	size += varint.Int64.Size(p.UpdatedAt.UnixMicro())
	size += varint.Int.Size(len(p.Metadata))
	for k, v := range p.Metadata {
		size += ord.String.Size(k)
		size += ord.String.Size(v)
	}
	return size
}

func marshalVector(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Float32.Marshal(f, bs[n:])
	}
	return n
}

func unmarshalVector(bs []byte) (v []float32, n int, err error) {
	var count, n1 int
	count, n, err = varint.Int.Unmarshal(bs)
	if err != nil || count <= 0 {
		return nil, n, err
	}

	v = make([]float32, count)
	for i := 0; i < count; i++ {
		v[i], n1, err = varint.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
	}
	return v, n, nil
}

func sizeVector(v []float32) int {
	size := varint.Int.Size(len(v))
	for _, f := range v {
		size += varint.Float32.Size(f)
	}
	return size
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic encoding keeps serialized bytes stable for equal pairs.
	sort.Strings(keys)
	return keys
}
