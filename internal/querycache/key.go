package querycache

import (
	"sort"
	"strings"
)

// Key is an ordered tuple identifying one cache entry. Keys are
// hierarchical: a broader key is a strict prefix of every narrower key
// derived from it, so invalidating the broad key cascades to all of
// them. Comparison is value equality over the segments, segment by
// segment — never string-prefix matching, which would make "dep"
// shadow "departments".
type Key []string

// Equal reports whether two keys have identical segments.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a segment-wise prefix of k.
// Every key is a prefix of itself.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// canonical returns the string form used to index the entry map.
// Segments are joined with a unit separator, which never appears in
// resource identifiers or encoded filters.
func (k Key) canonical() string {
	return strings.Join(k, "\x1f")
}

// String renders the key for logs.
func (k Key) String() string {
	return "[" + strings.Join(k, " ") + "]"
}

// Filter is a set of named query parameters included in a list key.
// Encoding is canonical: fields are sorted by name and empty values are
// dropped, so two semantically identical filters always produce the
// same key segment. Skipping this normalization would silently miss
// the cache for equal filters built in different field order.
type Filter map[string]string

// Encode returns the canonical filter segment.
func (f Filter) Encode() string {
	if len(f) == 0 {
		return ""
	}
	names := make([]string, 0, len(f))
	for name, value := range f {
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(f[name])
	}
	return b.String()
}
