package core

import "strings"

// NewUnit converts a chunk into an embeddable unit. The metadata is flattened
// and gains the generated ID and a copy of the trimmed content.
func NewUnit(chunk Chunk, newID IDGenerator) Unit {
	content := strings.TrimSpace(chunk.PageContent)
	id := newID(chunk)

	metadata := Flatten(chunk.Metadata)
	metadata[MetaID] = id
	metadata[MetaPageContent] = content

	return Unit{
		ID:          id,
		PageContent: content,
		Metadata:    metadata,
	}
}

// NewVector pairs a unit with its embedding.
func NewVector(unit Unit, values []float32) Vector {
	return Vector{
		ID:       unit.ID,
		Values:   values,
		Metadata: unit.Metadata,
	}
}
