package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMetadataStore_Read(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	writeFile(t, path, `{"documents":[{"filename":"a.pdf","author":"Ann"},{"filename":"b.pdf","year":2020}]}`)

	records, err := NewJSONMetadataStore(path).Read(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a.pdf", records[0].Filename())
	assert.Equal(t, "Ann", records[0]["author"])
	assert.Equal(t, float64(2020), records[1]["year"])
}

func TestJSONMetadataStore_Errors(t *testing.T) {
	dir := t.TempDir()
	malformed := filepath.Join(dir, "bad.json")
	writeFile(t, malformed, `{"documents": [`)
	wrongShape := filepath.Join(dir, "shape.json")
	writeFile(t, wrongShape, `{"files": []}`)

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "absent.json")},
		{"malformed json", malformed},
		{"missing documents key", wrongShape},
		{"no path", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJSONMetadataStore(tt.path).Read(context.Background())
			var merr *MetadataStoreError
			assert.ErrorAs(t, err, &merr)
		})
	}
}

func TestJSONMetadataStore_MissingFileUnwraps(t *testing.T) {
	_, err := NewJSONMetadataStore(filepath.Join(t.TempDir(), "absent.json")).Read(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
