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


package storage

import (
	"encoding/json"
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/vecseed/core"
)

// Vector records are encoded as:
//
//	id (string) | dims (varint) | dims x float32 | metadata (JSON string)
//
// Metadata values are arbitrary JSON, so they travel as an embedded JSON string.

// MarshalVector serializes a Vector to bytes.
func MarshalVector(v core.Vector) ([]byte, error) {
	meta, err := json.Marshal(v.Metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: metadata: %v", ErrSerializationFailed, err)
	}
	metaStr := string(meta)

	size := ord.String.Size(v.ID) + varint.Int.Size(len(v.Values)) + ord.String.Size(metaStr)
	for _, f := range v.Values {
		size += raw.Float32.Size(f)
	}

	buf := make([]byte, size)
	n := ord.String.Marshal(v.ID, buf)
	n += varint.Int.Marshal(len(v.Values), buf[n:])
	for _, f := range v.Values {
		n += raw.Float32.Marshal(f, buf[n:])
	}
	ord.String.Marshal(metaStr, buf[n:])
	return buf, nil
}

// UnmarshalVector deserializes a Vector from bytes.
func UnmarshalVector(data []byte) (core.Vector, error) {
	var v core.Vector

	id, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return v, fmt.Errorf("%w: id: %v", ErrTruncatedData, err)
	}
	off := n

	dims, n, err := varint.Int.Unmarshal(data[off:])
	if err != nil {
		return v, fmt.Errorf("%w: dims: %v", ErrTruncatedData, err)
	}
	off += n
	if dims < 0 || dims*4 > len(data)-off {
		return v, fmt.Errorf("%w: %d values declared", ErrTruncatedData, dims)
	}

	values := make([]float32, dims)
	for i := range values {
		values[i], n, err = raw.Float32.Unmarshal(data[off:])
		if err != nil {
			return v, fmt.Errorf("%w: value %d: %v", ErrTruncatedData, i, err)
		}
		off += n
	}

	metaStr, _, err := ord.String.Unmarshal(data[off:])
	if err != nil {
		return v, fmt.Errorf("%w: metadata: %v", ErrTruncatedData, err)
	}
	var meta map[string]any
	if err := json.Unmarshal([]byte(metaStr), &meta); err != nil {
		return v, fmt.Errorf("%w: metadata: %v", ErrSerializationFailed, err)
	}

	v.ID = id
	v.Values = values
	v.Metadata = meta
	return v, nil
}
