package core

import (
	"reflect"
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "This is a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)
			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %s vs %s", id1, id2)
			}
			if len(id1) != 32 {
				t.Errorf("IDFromContent() length = %d, want 32 hex chars", len(id1))
			}
		})
	}

	if IDFromContent("a") == IDFromContent("b") {
		t.Error("IDFromContent() produced the same ID for different content")
	}
}

func TestNewIDGenerator(t *testing.T) {
	chunk := Chunk{
		PageContent: "text",
		Metadata:    map[string]any{MetaSource: "/docs/a.pdf", MetaPage: 2},
		Offset:      800,
	}

	random, err := NewIDGenerator(IDStrategyRandom)
	if err != nil {
		t.Fatalf("NewIDGenerator(random) error = %v", err)
	}
	if random(chunk) == random(chunk) {
		t.Error("random generator returned the same ID twice")
	}

	content, err := NewIDGenerator(IDStrategyContent)
	if err != nil {
		t.Fatalf("NewIDGenerator(content) error = %v", err)
	}
	if content(chunk) != content(chunk) {
		t.Error("content generator is not deterministic")
	}
	moved := chunk
	moved.Offset = 0
	if content(chunk) == content(moved) {
		t.Error("content generator ignored the chunk offset")
	}

	if _, err := NewIDGenerator("sequential"); err == nil {
		t.Error("NewIDGenerator(sequential) error = nil, want error")
	}
}

func TestRunSummary_AddBatch(t *testing.T) {
	var s RunSummary
	s.AddBatch(BatchResult{Index: 1, Size: 5, Status: BatchCompleted, VectorCount: 5})
	s.AddBatch(BatchResult{Index: 2, Size: 5, Status: BatchSkipped, Reason: "embedding failed"})
	s.AddBatch(BatchResult{Index: 3, Size: 2, Status: BatchCompleted, VectorCount: 2})

	if s.Upserted != 7 {
		t.Errorf("Upserted = %d, want 7", s.Upserted)
	}
	if s.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", s.Skipped)
	}
	if len(s.Batches) != 3 {
		t.Errorf("len(Batches) = %d, want 3", len(s.Batches))
	}
}

func TestNewUnit(t *testing.T) {
	chunk := Chunk{
		PageContent: "  chunk body \n",
		Metadata: map[string]any{
			MetaSource:   "/docs/a.pdf",
			"title":      "A",
			MetaLocation: map[string]any{"offset": 0, "length": 10},
		},
	}

	unit := NewUnit(chunk, func(Chunk) string { return "fixed" })

	if unit.ID != "fixed" {
		t.Errorf("ID = %q, want fixed", unit.ID)
	}
	if unit.PageContent != "chunk body" {
		t.Errorf("PageContent = %q, want trimmed content", unit.PageContent)
	}
	want := map[string]any{
		MetaSource:      "/docs/a.pdf",
		"title":         "A",
		MetaID:          "fixed",
		MetaPageContent: "chunk body",
	}
	if !reflect.DeepEqual(unit.Metadata, want) {
		t.Errorf("Metadata = %v, want %v", unit.Metadata, want)
	}
	if _, ok := chunk.Metadata[MetaID]; ok {
		t.Error("NewUnit mutated the chunk metadata")
	}
}
