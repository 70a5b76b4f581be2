//go:build property

package fpcache

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestKeyProperties validates determinism and order independence of keys.
func TestKeyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("identical inputs produce identical keys", prop.ForAll(
		func(source string, names []string, fingerprint string) bool {
			return GenerateKey(source, names, fingerprint) == GenerateKey(source, names, fingerprint)
		},
		gen.AnyString(),
		gen.SliceOf(gen.AlphaString()),
		gen.AlphaString(),
	))

	properties.Property("component order does not change the key", prop.ForAll(
		func(source string, names []string) bool {
			reversed := make([]string, len(names))
			for i, name := range names {
				reversed[len(names)-1-i] = name
			}
			return GenerateKey(source, names, "fp") == GenerateKey(source, reversed, "fp")
		},
		gen.AnyString(),
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("fingerprint changes the key", prop.ForAll(
		func(source string, a, b int) bool {
			if a == b {
				return true
			}
			return GenerateKey(source, nil, fmt.Sprintf("p:%d", a)) != GenerateKey(source, nil, fmt.Sprintf("p:%d", b))
		},
		gen.AnyString(),
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}

// TestCacheInvariantProperties checks size accounting and access order after
// arbitrary operation sequences.
func TestCacheInvariantProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(8642)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("size equals sum of entries and order matches entries", prop.ForAll(
		func(ops []int) bool {
			cache := New[string](Options{MaxSizeBytes: 5 * EstimateSize("value-00")})
			for i, op := range ops {
				key := fmt.Sprintf("k%d", op%8)
				switch i % 3 {
				case 0, 1:
					cache.Set(key, Entry[string]{Value: fmt.Sprintf("value-%02d", op%100)})
				default:
					if op%2 == 0 {
						cache.Get(key)
					} else {
						cache.Delete(key)
					}
				}
			}

			cache.mu.Lock()
			defer cache.mu.Unlock()

			var total int64
			seen := map[string]bool{}
			for n := cache.head.next; n != cache.tail; n = n.next {
				if seen[n.key] {
					return false
				}
				seen[n.key] = true
				if cache.entries[n.key] != n {
					return false
				}
				total += n.size
			}
			return total == cache.currentSize &&
				len(seen) == len(cache.entries) &&
				cache.currentSize <= cache.maxSize
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}
