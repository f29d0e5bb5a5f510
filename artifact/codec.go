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


package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// IndexMUS serializes Index artifacts in the MUS binary format.
var IndexMUS = indexMUS{}

type indexMUS struct{}

func (indexMUS) Marshal(x Index, bs []byte) (n int) {
	n = varint.Int.Marshal(x.Dim, bs)
	n += varint.Int.Marshal(len(x.Entries), bs[n:])
	for _, e := range x.Entries {
		n += ord.String.Marshal(e.Text, bs[n:])
		n += ord.String.Marshal(e.Answer, bs[n:])
		n += varint.Int.Marshal(len(e.Vector), bs[n:])
		for _, f := range e.Vector {
			n += varint.Float32.Marshal(f, bs[n:])
		}
	}
	return n
}

func (indexMUS) Unmarshal(bs []byte) (x Index, n int, err error) {
	var n1 int
	x.Dim, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}

	var count int
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count < 0 {
		err = fmt.Errorf("%w: negative entry count", ErrCorruptIndex)
		return
	}

	x.Entries = make([]IndexEntry, 0, count)
	for i := 0; i < count; i++ {
		var e IndexEntry
		e.Text, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		e.Answer, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}

		var vlen int
		vlen, n1, err = varint.Int.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		if vlen < 0 {
			err = fmt.Errorf("%w: negative vector length", ErrCorruptIndex)
			return
		}
		e.Vector = make([]float32, vlen)
		for j := 0; j < vlen; j++ {
			e.Vector[j], n1, err = varint.Float32.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
		x.Entries = append(x.Entries, e)
	}
	return
}

func (indexMUS) Size(x Index) (size int) {
	size = varint.Int.Size(x.Dim)
	size += varint.Int.Size(len(x.Entries))
	for _, e := range x.Entries {
		size += ord.String.Size(e.Text)
		size += ord.String.Size(e.Answer)
		size += varint.Int.Size(len(e.Vector))
		for _, f := range e.Vector {
			size += varint.Float32.Size(f)
		}
	}
	return size
}

// MarshalIndex serializes an index to bytes.
func MarshalIndex(x *Index) []byte {
	buf := make([]byte, IndexMUS.Size(*x))
	IndexMUS.Marshal(*x, buf)
	return buf
}

// UnmarshalIndex deserializes an index from bytes and checks that every
// vector matches the declared dimension.
func UnmarshalIndex(data []byte) (*Index, error) {
	x, _, err := IndexMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if x.Dim <= 0 && len(x.Entries) > 0 {
		return nil, fmt.Errorf("%w: dimension %d", ErrCorruptIndex, x.Dim)
	}
	for i, e := range x.Entries {
		if len(e.Vector) != x.Dim {
			return nil, fmt.Errorf("%w: entry %d has %d dims, index declares %d",
				ErrCorruptIndex, i, len(e.Vector), x.Dim)
		}
	}
	return &x, nil
}

// ReadIndexFile loads and validates an index artifact from disk.
func ReadIndexFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	x, err := UnmarshalIndex(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return x, nil
}

// WriteIndexFile publishes an index artifact atomically: the serving store
// stats and reads whole files, so a torn write must never be observable.
func WriteIndexFile(path string, x *Index) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, MarshalIndex(x), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
