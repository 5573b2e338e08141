package pgvector

import "strings"

// jsonbMetadata copies metadata with NUL characters removed from every
// string. PostgreSQL rejects \u0000 in JSONB values and keys.
func jsonbMetadata(metadata map[string]any) map[string]any {
	out := make(map[string]any, len(metadata))
	for k, v := range metadata {
		out[stripNUL(k)] = jsonbValue(v)
	}
	return out
}

func jsonbValue(v any) any {
	switch val := v.(type) {
	case string:
		return stripNUL(val)
	case map[string]any:
		return jsonbMetadata(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = jsonbValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		for i, item := range val {
			out[i] = stripNUL(item)
		}
		return out
	default:
		return v
	}
}

func stripNUL(s string) string {
	if !strings.ContainsRune(s, 0) {
		return s
	}
	return strings.ReplaceAll(s, "\x00", "")
}
