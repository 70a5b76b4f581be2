package fpcache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestCache(t *testing.T, opts Options) (*Cache[string], *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)}
	opts.Clock = clock.Now
	return New[string](opts), clock
}

// fixedValue encodes to 6 bytes, so each entry weighs 1030 bytes.
const fixedValue = "aaaa"

func TestCacheDefaults(t *testing.T) {
	cache := New[string](Options{})
	stats := cache.Stats()

	assert.Equal(t, int64(DefaultMaxSizeMB*bytesPerMegabyte), stats.MaxSizeBytes)
	assert.Equal(t, DefaultTTL, cache.ttl)
	assert.Zero(t, stats.HitRate)
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t, Options{})
	created := time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)

	cache.Set("k", Entry[string]{Value: "artifact", CreatedAt: created})

	got, ok := cache.Get("k")
	require.True(t, ok)
	assert.Equal(t, "artifact", got.Value)
	assert.Equal(t, created, got.CreatedAt)
}

func TestCacheSetStampsCreatedAt(t *testing.T) {
	cache, clock := newTestCache(t, Options{})
	cache.Set("k", Entry[string]{Value: "v"})

	got, ok := cache.Get("k")
	require.True(t, ok)
	assert.Equal(t, clock.now, got.CreatedAt)
}

func TestCacheGetMissingKey(t *testing.T) {
	cache, _ := newTestCache(t, Options{})
	_, ok := cache.Get("missing")
	assert.False(t, ok)
}

func TestCacheTTLExpiryDeletesEntry(t *testing.T) {
	cache, clock := newTestCache(t, Options{TTL: time.Minute})
	cache.Set("stale", Entry[string]{Value: "v", CreatedAt: clock.now.Add(-(time.Minute + time.Millisecond))})
	cache.Set("fresh", Entry[string]{Value: "v"})
	require.Equal(t, 2, cache.Stats().EntryCount)

	_, ok := cache.Get("stale")
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Stats().EntryCount)
	assert.Equal(t, EstimateSize("v"), cache.Stats().SizeBytes)
}

func TestCacheTTLBoundaryIsInclusive(t *testing.T) {
	cache, clock := newTestCache(t, Options{TTL: time.Minute})
	cache.Set("k", Entry[string]{Value: "v"})

	clock.Advance(time.Minute)
	_, ok := cache.Get("k")
	assert.True(t, ok, "entry exactly ttl old is still valid")

	clock.Advance(time.Millisecond)
	_, ok = cache.Get("k")
	assert.False(t, ok)
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	size := EstimateSize(fixedValue)
	cache, _ := newTestCache(t, Options{MaxSizeBytes: 2 * size})

	cache.Set("one", Entry[string]{Value: fixedValue})
	cache.Set("two", Entry[string]{Value: fixedValue})

	_, ok := cache.Get("one")
	require.True(t, ok)

	cache.Set("three", Entry[string]{Value: fixedValue})

	_, ok = cache.Get("two")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = cache.Get("one")
	assert.True(t, ok)
	_, ok = cache.Get("three")
	assert.True(t, ok)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Equal(t, 2*size, stats.SizeBytes)
}

func TestCacheOversizedEntryEmptiesCacheAndIsInserted(t *testing.T) {
	cache, _ := newTestCache(t, Options{MaxSizeBytes: 1500})
	cache.Set("small", Entry[string]{Value: "x"})

	big := string(make([]byte, 4096))
	cache.Set("big", Entry[string]{Value: big})

	assert.Equal(t, []string{"big"}, cache.Keys())
	assert.Equal(t, EstimateSize(big), cache.Stats().SizeBytes)
}

func TestCacheReplacementSubtractsOldSize(t *testing.T) {
	cache, _ := newTestCache(t, Options{})
	cache.Set("k", Entry[string]{Value: "short"})
	cache.Set("k", Entry[string]{Value: "a considerably longer value"})

	stats := cache.Stats()
	assert.Equal(t, 1, stats.EntryCount)
	assert.Equal(t, EstimateSize("a considerably longer value"), stats.SizeBytes)
	assert.Equal(t, []string{"k"}, cache.Keys())
}

func TestCacheReplacementDoesNotEvictItself(t *testing.T) {
	size := EstimateSize(fixedValue)
	cache, _ := newTestCache(t, Options{MaxSizeBytes: 2 * size})
	cache.Set("one", Entry[string]{Value: fixedValue})
	cache.Set("two", Entry[string]{Value: fixedValue})

	cache.Set("two", Entry[string]{Value: fixedValue})

	assert.Equal(t, []string{"one", "two"}, cache.Keys())
	assert.Zero(t, cache.Stats().Evictions)
}

func TestCacheDelete(t *testing.T) {
	cache, _ := newTestCache(t, Options{})
	cache.Set("k", Entry[string]{Value: "v"})

	assert.True(t, cache.Delete("k"))
	assert.False(t, cache.Delete("k"))
	assert.Zero(t, cache.Stats().SizeBytes)
	assert.Empty(t, cache.Keys())
}

func TestCacheClearResetsState(t *testing.T) {
	cache, _ := newTestCache(t, Options{})
	cache.Set("a", Entry[string]{Value: "v"})
	cache.Set("b", Entry[string]{Value: "v"})
	cache.RecordHit()

	cache.Clear()

	stats := cache.Stats()
	assert.Zero(t, stats.EntryCount)
	assert.Zero(t, stats.SizeBytes)
	assert.Zero(t, stats.HitRate)
	assert.Zero(t, cache.Len())
}

func TestCacheHitRate(t *testing.T) {
	cache, _ := newTestCache(t, Options{})
	assert.Zero(t, cache.Stats().HitRate)

	cache.RecordHit()
	cache.RecordHit()
	cache.RecordMiss()

	assert.InDelta(t, 2.0/3.0, cache.Stats().HitRate, 1e-9)
}

func TestCacheGetDoesNotCountHits(t *testing.T) {
	cache, _ := newTestCache(t, Options{})
	cache.Set("k", Entry[string]{Value: "v"})
	cache.Get("k")
	cache.Get("missing")

	assert.Zero(t, cache.Stats().HitRate)
}

type panicky struct{}

func (panicky) MarshalJSON() ([]byte, error) { panic("cyclic") }

type failing struct{}

func (failing) MarshalJSON() ([]byte, error) { return nil, errors.New("unsupported") }

func TestEstimateSizeFallsBack(t *testing.T) {
	assert.Equal(t, int64(fallbackSize), EstimateSize(make(chan int)))
	assert.Equal(t, int64(fallbackSize), EstimateSize(failing{}))
	assert.Equal(t, int64(fallbackSize), EstimateSize(panicky{}))
}

func TestEstimateSizeUsesEncodedLength(t *testing.T) {
	payload, err := json.Marshal(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)+entryOverhead), EstimateSize(map[string]int{"a": 1}))
}

func TestCacheSetWithUnencodableValue(t *testing.T) {
	cache := New[any](Options{})
	cache.Set("k", Entry[any]{Value: panicky{}})

	assert.Equal(t, int64(fallbackSize), cache.Stats().SizeBytes)
}

type debugEntry struct {
	msg  string
	args []any
}

type debugRecorder struct {
	entries []debugEntry
}

func (r *debugRecorder) Trace(string, ...any) {}
func (r *debugRecorder) Debug(msg string, args ...any) {
	r.entries = append(r.entries, debugEntry{msg: msg, args: args})
}
func (r *debugRecorder) Info(string, ...any)  {}
func (r *debugRecorder) Warn(string, ...any)  {}
func (r *debugRecorder) Error(string, ...any) {}
func (r *debugRecorder) Fatal(string, ...any) {}
func (r *debugRecorder) WithContext(context.Context) interfaces.Logger {
	return r
}

func TestCacheLogsExpiryAndEviction(t *testing.T) {
	rec := &debugRecorder{}
	size := EstimateSize(fixedValue)
	cache, clock := newTestCache(t, Options{MaxSizeBytes: size, TTL: time.Minute, Logger: rec})

	cache.Set("one", Entry[string]{Value: fixedValue})
	cache.Set("two", Entry[string]{Value: fixedValue})
	require.Len(t, rec.entries, 1)
	assert.Equal(t, "mdx.cache.evicted", rec.entries[0].msg)
	assert.Equal(t, []any{"cache_key", "one", "incoming_key", "two"}, rec.entries[0].args)

	clock.Advance(2 * time.Minute)
	_, ok := cache.Get("two")
	require.False(t, ok)
	require.Len(t, rec.entries, 2)
	assert.Equal(t, "mdx.cache.expired", rec.entries[1].msg)
	assert.Equal(t, "two", rec.entries[1].args[1])
}
