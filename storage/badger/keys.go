package badger

import (
	"strings"

	"github.com/poiesic/vecseed/storage"
)

// Key prefixes for different data types
const (
	indexRegistryPrefix = "vidx"
	vectorPrefix        = "vvec"
)

// makeIndexKey generates the registry key for an index.
// Format: vidx:name
func makeIndexKey(name string) []byte {
	return []byte(indexRegistryPrefix + ":" + name)
}

// makeVectorPrefix generates the key prefix shared by all vectors of an index.
// Format: vvec:name:
func makeVectorPrefix(name string) []byte {
	return []byte(vectorPrefix + ":" + name + ":")
}

// makeVectorKey generates a key for a vector by ID.
// Format: vvec:name:id
func makeVectorKey(name, id string) []byte {
	prefix := makeVectorPrefix(name)
	buf := make([]byte, len(prefix)+len(id))
	offset := copy(buf, prefix)
	copy(buf[offset:], id)
	return buf
}

// checkIndexName rejects names that would make key prefixes ambiguous.
func checkIndexName(name string) error {
	if name == "" || strings.Contains(name, ":") {
		return storage.ErrInvalidIndexName
	}
	return nil
}
