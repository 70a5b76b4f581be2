package fpcache

import (
	"slices"
	"strconv"
	"strings"
)

// KeyDelimiter separates the parts of a generated key.
const KeyDelimiter = "|"

// GenerateKey derives a cache key from the source hash, the sorted component
// names and the plugin fingerprint. Component order does not matter.
func GenerateKey(source string, componentNames []string, pluginFingerprint string) string {
	names := slices.Clone(componentNames)
	slices.Sort(names)

	var b strings.Builder
	b.WriteString(HashSource(source))
	b.WriteString(KeyDelimiter)
	b.WriteString(strings.Join(names, ","))
	b.WriteString(KeyDelimiter)
	b.WriteString(pluginFingerprint)
	return b.String()
}

// HashSource computes a 32-bit rolling hash (h = h*31 + c, wrapping) over the
// runes of source and formats it in base 36.
func HashSource(source string) string {
	var h int32
	for _, r := range source {
		h = h*31 + int32(r)
	}
	return strconv.FormatInt(int64(h), 36)
}
