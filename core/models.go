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
	"maps"
	"time"
)

// Well-known metadata keys.
const (
	MetaSource      = "source"
	MetaPageContent = "pageContent"
	MetaID          = "id"
	MetaFilename    = "filename"
	MetaTotalPages  = "totalPages"
	MetaLocation    = "loc"
	MetaPDF         = "pdf"
	MetaPage        = "page"
)

// Document is a page-level unit of text produced by a document source.
// The same type carries raw and enriched documents; enrichment returns copies.
type Document struct {
	PageContent string
	Metadata    map[string]any
}

// Source returns the source path recorded by the loader, or "" if absent.
func (d Document) Source() string {
	if s, ok := d.Metadata[MetaSource].(string); ok {
		return s
	}
	return ""
}

// Clone returns a copy of the document with its own top-level metadata map.
func (d Document) Clone() Document {
	return Document{
		PageContent: d.PageContent,
		Metadata:    cloneMetadata(d.Metadata),
	}
}

// SideRecord is a metadata entry from the side-store, keyed by its "filename" field.
type SideRecord map[string]any

// Filename returns the record's filename, or "" if absent.
func (r SideRecord) Filename() string {
	if s, ok := r[MetaFilename].(string); ok {
		return s
	}
	return ""
}

// Chunk is a fragment of a document's page content.
type Chunk struct {
	PageContent string
	Metadata    map[string]any
	Offset      int // rune offset of the chunk within its parent page
}

// Unit is a chunk ready for embedding. ID is generated exactly once and becomes
// the vector's primary key.
type Unit struct {
	ID          string
	PageContent string
	Metadata    map[string]any
}

// Vector is an embedded unit ready to be written to a vector index.
type Vector struct {
	ID       string
	Values   []float32
	Metadata map[string]any
}

// BatchStatus is the outcome of one outer batch.
type BatchStatus string

const (
	// BatchCompleted means every vector of the batch was upserted.
	BatchCompleted BatchStatus = "completed"
	// BatchSkipped means the batch was abandoned; see BatchResult.Reason.
	BatchSkipped BatchStatus = "skipped"
)

// BatchResult reports what happened to a single outer batch.
type BatchResult struct {
	Index       int         `json:"index"`
	Size        int         `json:"size"`
	Status      BatchStatus `json:"status"`
	VectorCount int         `json:"vectorCount"`
	Reason      string      `json:"reason,omitempty"`
}

// Completed reports whether the batch was fully written.
func (r BatchResult) Completed() bool {
	return r.Status == BatchCompleted
}

// RunSummary aggregates the counts of a bootstrap run.
type RunSummary struct {
	TargetIndex      string        `json:"targetIndex"`
	AlreadyPopulated bool          `json:"alreadyPopulated"`
	Loaded           int           `json:"loaded"`
	Valid            int           `json:"valid"`
	Dropped          int           `json:"dropped"`
	Chunks           int           `json:"chunks"`
	ChunksDropped    int           `json:"chunksDropped"`
	Batches          []BatchResult `json:"batches"`
	Embedded         int           `json:"embedded"`
	Upserted         int           `json:"upserted"`
	Skipped          int           `json:"skipped"`
	Duration         time.Duration `json:"duration"`
}

// AddBatch records a batch result and updates the aggregate counters.
func (s *RunSummary) AddBatch(r BatchResult) {
	s.Batches = append(s.Batches, r)
	if r.Completed() {
		s.Upserted += r.VectorCount
		return
	}
	s.Skipped++
}

func cloneMetadata(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return maps.Clone(m)
}
