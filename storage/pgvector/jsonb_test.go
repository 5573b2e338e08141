package pgvector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONBMetadata(t *testing.T) {
	in := map[string]any{
		"pageContent": "a\x00b",
		"ke\x00y":     "v",
		"page":        3,
		"nested":      map[string]any{"title": "\x00t"},
		"tags":        []any{"x\x00", 1},
		"authors":     []string{"\x00ann"},
	}

	out := jsonbMetadata(in)

	assert.Equal(t, map[string]any{
		"pageContent": "ab",
		"key":         "v",
		"page":        3,
		"nested":      map[string]any{"title": "t"},
		"tags":        []any{"x", 1},
		"authors":     []string{"ann"},
	}, out)
	assert.Equal(t, "a\x00b", in["pageContent"], "input must not be modified")
}

func TestJSONBMetadata_Nil(t *testing.T) {
	assert.Equal(t, map[string]any{}, jsonbMetadata(nil))
}
