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
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrIndexNotFound indicates that the named vector index does not exist.
	ErrIndexNotFound = errors.New("vector index not found")

	// ErrInvalidIndexName indicates an empty or malformed index name.
	ErrInvalidIndexName = errors.New("invalid index name")

	// ErrInvalidVector indicates a vector without an ID or without values.
	ErrInvalidVector = errors.New("invalid vector")

	// ErrDimensionMismatch indicates a vector whose length differs from the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrTruncatedData indicates that data was truncated during reading.
	ErrTruncatedData = errors.New("truncated data")
)

// IndexWriteError reports a failed upsert sub-batch. Sub-batches before
// Offset were written and remain in the index.
type IndexWriteError struct {
	Index  string
	Offset int
	Count  int
	Err    error
}

func (e *IndexWriteError) Error() string {
	return fmt.Sprintf("write to index %q failed at vectors [%d:%d]: %v", e.Index, e.Offset, e.Offset+e.Count, e.Err)
}

func (e *IndexWriteError) Unwrap() error {
	return e.Err
}
