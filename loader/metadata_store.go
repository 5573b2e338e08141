package loader

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/poiesic/vecseed/core"
)

// MetadataStore provides side metadata records keyed by filename.
type MetadataStore interface {
	Read(ctx context.Context) ([]core.SideRecord, error)
}

// JSONMetadataStore reads side records from a JSON file shaped as
//
//	{"documents": [{"filename": "a.pdf", ...}, ...]}
type JSONMetadataStore struct {
	path string
}

var _ MetadataStore = (*JSONMetadataStore)(nil)

// NewJSONMetadataStore creates a store backed by the file at path.
func NewJSONMetadataStore(path string) *JSONMetadataStore {
	return &JSONMetadataStore{path: path}
}

type metadataFile struct {
	Documents []core.SideRecord `json:"documents"`
}

// Read parses the file on every call. A missing, unreadable or malformed
// file is reported as a *MetadataStoreError.
func (s *JSONMetadataStore) Read(ctx context.Context) ([]core.SideRecord, error) {
	if s.path == "" {
		return nil, &MetadataStoreError{Path: s.path, Err: errors.New("no metadata file configured")}
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &MetadataStoreError{Path: s.path, Err: err}
	}

	var file metadataFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &MetadataStoreError{Path: s.path, Err: err}
	}
	if file.Documents == nil {
		return nil, &MetadataStoreError{Path: s.path, Err: errors.New(`missing "documents" array`)}
	}
	return file.Documents, nil
}
