package headers

import "strings"

// ParseHeaders turns repeated --header values ("Key: Value") into a map.
// Entries without a colon or with an empty key are ignored.
func ParseHeaders(h []string) map[string]string {
	m := make(map[string]string, len(h))
	for _, hdr := range h {
		key, value, ok := strings.Cut(hdr, ":")
		if !ok {
			continue
		}
		if key = strings.TrimSpace(key); key != "" {
			m[key] = strings.TrimSpace(value)
		}
	}
	return m
}

// Merge overlays override headers onto base without mutating either.
func Merge(base, override map[string]string) map[string]string {
	m := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		m[k] = v
	}
	for k, v := range override {
		m[k] = v
	}
	return m
}
