// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// QueryParam trims surrounding whitespace from a query or form value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Email lowercases and trims an email address for lookups and storage.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tags trims each tag, drops empties, and removes duplicates while keeping
// first-seen order (insertion order is relevant for display).
func Tags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
