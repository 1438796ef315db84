package valueobjects

import (
	"strings"
)

// ResolveReference normalizes the cross-reference encodings that appear in
// the source collections and returns the bare entity key.
//
// Three shapes are accepted:
//
//	"companies/acme"              collection-path string
//	"acme"                        bare key
//	map[string]any{"id": "acme"}  nested object (id, key or dbKey field)
//
// The boolean result is false when the reference cannot be resolved;
// callers skip link creation in that case rather than failing.
func ResolveReference(ref any) (string, bool) {
	switch v := ref.(type) {
	case string:
		if v == "" {
			return "", false
		}
		// Path-style references keep only the final segment.
		if idx := strings.LastIndex(v, "/"); idx >= 0 {
			key := v[idx+1:]
			return key, key != ""
		}
		return v, true
	case map[string]any:
		for _, field := range []string{"id", "key", "dbKey"} {
			if raw, ok := v[field]; ok {
				if s, ok := raw.(string); ok && s != "" {
					return ResolveReference(s)
				}
			}
		}
		return "", false
	case NodeID:
		return v.Key(), v != ""
	default:
		return "", false
	}
}

// ResolveReferences resolves a slice of references, dropping any that
// cannot be normalized.
func ResolveReferences(refs []any) []string {
	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		if key, ok := ResolveReference(ref); ok {
			keys = append(keys, key)
		}
	}
	return keys
}
