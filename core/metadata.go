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
	"path/filepath"
	"strings"
)

// loader key for the page count emitted by the langchaingo PDF loader
const metaTotalPagesSnake = "total_pages"

// Enrich merges side-store metadata into documents matched by the basename of
// their source path. Side-record fields win on collision and the trimmed page
// content is re-attached under "pageContent". Documents without a match are
// returned unchanged. The input slice is not modified.
func Enrich(docs []Document, records []SideRecord) []Document {
	byName := make(map[string]SideRecord, len(records))
	for _, r := range records {
		name := r.Filename()
		if name == "" {
			continue
		}
		// first record wins when the store lists a filename twice
		if _, seen := byName[name]; !seen {
			byName[name] = r
		}
	}

	out := make([]Document, len(docs))
	for i, doc := range docs {
		enriched := doc.Clone()
		if rec, ok := byName[filepath.Base(doc.Source())]; ok {
			for k, v := range rec {
				enriched.Metadata[k] = v
			}
			enriched.Metadata[MetaPageContent] = strings.TrimSpace(doc.PageContent)
		}
		out[i] = enriched
	}
	return out
}

// Flatten removes nested provider structures from metadata. A nested page-count
// object is promoted to a scalar "totalPages" and location objects are dropped.
// Returns a new map.
func Flatten(metadata map[string]any) map[string]any {
	out := cloneMetadata(metadata)

	if pdf, ok := out[MetaPDF].(map[string]any); ok {
		if total, ok := pdf[MetaTotalPages]; ok {
			out[MetaTotalPages] = total
		}
		delete(out, MetaPDF)
	}
	if total, ok := out[metaTotalPagesSnake]; ok {
		if _, exists := out[MetaTotalPages]; !exists {
			out[MetaTotalPages] = total
		}
		delete(out, metaTotalPagesSnake)
	}
	delete(out, MetaLocation)

	return out
}
